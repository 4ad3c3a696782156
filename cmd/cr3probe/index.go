package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tetsuo/cr3/internal/catalog"
	"github.com/tetsuo/cr3/internal/report"
)

func newIndexCmd(opts *globalOptions) *cobra.Command {
	var (
		output string
		jobs   int
		pixels bool
	)

	cmd := &cobra.Command{
		Use:   "index DIR",
		Short: "Build a Parquet index of the CR3 files below a directory",
		Long: `Decode every .cr3 file below DIR and write one row per file to a
Parquet file. Files that fail to decode are kept with their error.

Examples:
  cr3probe index ./photos -o photos.parquet
  cr3probe index ./photos -o photos.parquet --jobs 4 --pixels`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := catalog.FindFiles(args[0])
			if err != nil {
				return err
			}
			opts.logger.Info("indexing", "dir", args[0], "files", len(paths), "jobs", jobs)

			inspect := func(ctx context.Context, path string) (report.Summary, error) {
				s, _, err := opts.inspectFile(ctx, path, pixels, false)
				return s, err
			}
			rows, err := catalog.Build(cmd.Context(), paths, jobs, inspect, opts.logger)
			if err != nil {
				return err
			}
			if err := catalog.Write(output, rows); err != nil {
				return err
			}

			failed := 0
			for _, r := range rows {
				if r.Error != "" {
					failed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files (%d failed) to %s\n", len(rows), failed, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Parquet file to write (required)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "files decoded concurrently")
	addPixelsFlag(cmd.Flags(), &pixels)
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
