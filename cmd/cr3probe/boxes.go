package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tetsuo/cr3/bmff"
)

var (
	containerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	canonStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	leafStyle      = lipgloss.NewStyle()
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newBoxesCmd(opts *globalOptions) *cobra.Command {
	var top bool

	cmd := &cobra.Command{
		Use:   "boxes FILE",
		Short: "Print the box tree of a file",
		Long: `Print every box with its offset and size, descending into the
container boxes that hold CR3 track and metadata boxes.

With --top only top-level boxes are listed and payloads are never read,
which is cheap on large files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if top {
				return printTopLevel(out, args[0])
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			n := 0
			err = bmff.Walk(cmd.Context(), data, func(b bmff.Box, depth int) error {
				n++
				printBox(out, b, depth)
				return nil
			})
			opts.logger.Debug("walked boxes", "path", args[0], "count", n)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&top, "top", false, "list top-level boxes only")

	return cmd
}

func printTopLevel(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bmff.NewScanner(f)
	for sc.Next() {
		printBox(out, sc.Box(), 0)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func printBox(out io.Writer, b bmff.Box, depth int) {
	indent := strings.Repeat("  ", depth)

	style := leafStyle
	switch {
	case bmff.IsContainerBox(b.Type):
		style = containerStyle
	case isCanonBox(b.Type):
		style = canonStyle
	}

	extra := ""
	if b.Type == bmff.TypeUUID {
		extra = " uuid=" + hex.EncodeToString(b.UUID[:])
	}

	fmt.Fprintf(out, "%s[%s] %s%s\n",
		indent,
		style.Render(b.Type.String()),
		dimStyle.Render(fmt.Sprintf("offset=%d size=%d (%s)", b.Offset, b.Size, humanize.IBytes(b.Size))),
		extra)
}

func isCanonBox(t bmff.BoxType) bool {
	switch t {
	case bmff.TypeCRAW, bmff.TypeCNCV, bmff.TypeCMT1, bmff.TypeCMT2,
		bmff.TypeCMT3, bmff.TypeCMT4, bmff.TypeTHMB:
		return true
	}
	return false
}
