// Package catalog builds a Parquet index of CR3 files.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"github.com/tetsuo/cr3/internal/report"
)

// Row is one indexed file.
type Row struct {
	Path        string `parquet:"path"`
	Size        int64  `parquet:"size"`
	Brands      string `parquet:"brands"`
	Make        string `parquet:"make"`
	Model       string `parquet:"model"`
	Width       int32  `parquet:"width"`
	Height      int32  `parquet:"height"`
	BitDepth    int32  `parquet:"bit_depth"`
	Components  int32  `parquet:"components"`
	PixelDigest string `parquet:"pixel_digest"`
	Hints       string `parquet:"hints"`
	// Error is set when the file could not be decoded.
	Error string `parquet:"error"`
}

// FromSummary converts a decode summary into a Row.
func FromSummary(s report.Summary) Row {
	return Row{
		Path:        s.Path,
		Size:        s.Size,
		Brands:      strings.Join(s.Brands, ","),
		Make:        s.CleanMake,
		Model:       s.CleanModel,
		Width:       int32(s.Width),
		Height:      int32(s.Height),
		BitDepth:    int32(s.BitDepth),
		Components:  int32(s.Components),
		PixelDigest: s.PixelDigest,
		Hints:       strings.Join(s.Hints, "; "),
	}
}

// InspectFunc decodes one file.
type InspectFunc func(ctx context.Context, path string) (report.Summary, error)

// FindFiles returns the .cr3 files below root in lexical order.
func FindFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".cr3") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return paths, nil
}

// Build inspects paths with at most jobs concurrent calls and returns one
// row per path, in order. A file that fails to decode gets a row with
// Error set; only cancellation stops the build. Decode failures are logged
// at debug level to logger, which may be nil.
func Build(ctx context.Context, paths []string, jobs int, inspect InspectFunc, logger *slog.Logger) ([]Row, error) {
	rows := make([]Row, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := inspect(ctx, path)
			if err != nil {
				if logger != nil {
					logger.Debug("index: decode failed", "path", path, "error", err)
				}
				rows[i] = Row{Path: path, Error: err.Error()}
				return nil
			}
			rows[i] = FromSummary(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Write stores rows as a Parquet file at path.
func Write(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	w := parquet.NewGenericWriter[Row](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return f.Close()
}

// Read loads the rows of a Parquet index.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	r := parquet.NewGenericReader[Row](pf)
	defer r.Close()

	rows := make([]Row, 0, pf.NumRows())
	batch := make([]Row, 128)
	for {
		n, err := r.Read(batch)
		rows = append(rows, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
	}
	return rows, nil
}
