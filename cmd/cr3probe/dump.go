package main

import (
	"errors"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tetsuo/cr3/internal/pixdump"
)

func newDumpCmd(opts *globalOptions) *cobra.Command {
	var (
		output      string
		compression = pixdump.CompressionZstd
	)

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Write decoded raw samples to a pixel dump",
		Long: `Decode the raw samples of FILE and write them as a pixel dump: a small
header with the image size followed by little-endian uint16 samples,
optionally compressed with lz4 or zstd.

The dump is written to stdout unless -o is given; writing binary data to
a terminal is refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, img, err := opts.inspectFile(cmd.Context(), args[0], true, false)
			if err != nil {
				return err
			}

			var (
				w    io.Writer = cmd.OutOrStdout()
				file *os.File
			)
			if output != "" && output != "-" {
				file, err = os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			} else if isTerminal(w) {
				return errors.New("refusing to write a binary dump to a terminal; use -o")
			}

			cw := &countingWriter{w: w}
			used, err := pixdump.Write(cw, pixdump.Image{Width: img.Width, Height: img.Height, Pixels: img.Pixels}, compression)
			if err != nil {
				return err
			}
			opts.logger.Info("wrote pixel dump",
				"path", args[0],
				"compression", used.String(),
				"size", humanize.IBytes(uint64(cw.n)))
			if file != nil {
				return file.Close()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	addCompressionFlag(cmd.Flags(), &compression)

	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
