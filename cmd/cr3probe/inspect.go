package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tetsuo/cr3"
	"github.com/tetsuo/cr3/internal/report"
	"github.com/tetsuo/cr3/tiffmeta"
)

// inspectFile probes and decodes one file. Samples are read only when
// pixels is set; TIFF entries are listed only when tags is set.
func (o *globalOptions) inspectFile(ctx context.Context, path string, pixels, tags bool) (report.Summary, *cr3.RawImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return report.Summary{}, nil, err
	}
	brands, err := cr3.Probe(data)
	if err != nil {
		return report.Summary{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	ifd, err := tiffmeta.FromContainer(data, o.logger)
	switch {
	case errors.Is(err, tiffmeta.ErrNoMetadata):
		o.logger.Debug("no TIFF metadata", "path", path)
		ifd = nil
	case err != nil:
		return report.Summary{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	img, err := o.decoder().DecodeContext(ctx, data, ifd, !pixels)
	if err != nil {
		return report.Summary{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	s := report.NewSummary(path, int64(len(data)), brands, img)
	if tags {
		s.Tags = report.TagValues(ifd)
	}
	return s, img, nil
}
