package main

import (
	"github.com/spf13/cobra"

	"github.com/tetsuo/cr3/internal/report"
)

func newInfoCmd(opts *globalOptions) *cobra.Command {
	var (
		format report.Format
		pixels bool
		tags   bool
	)

	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "Show camera and image geometry of CR3 files",
		Long: `Show the brands, camera identity and raw image geometry of each file.

Only the CRAW header is read unless --pixels is given, in which case the
samples are decoded and their BLAKE3 digest is reported. --tags lists the
entries of the CMT1 directory and its Exif sub-directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries := make([]report.Summary, 0, len(args))
			for _, path := range args {
				s, _, err := opts.inspectFile(cmd.Context(), path, pixels, tags)
				if err != nil {
					return err
				}
				summaries = append(summaries, s)
			}
			return report.Write(cmd.OutOrStdout(), format, summaries)
		},
	}

	addFormatFlag(cmd.Flags(), &format)
	addPixelsFlag(cmd.Flags(), &pixels)
	cmd.Flags().BoolVar(&tags, "tags", false, "list TIFF metadata entries")

	return cmd
}
