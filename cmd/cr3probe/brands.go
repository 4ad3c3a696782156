package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tetsuo/cr3"
	"github.com/tetsuo/cr3/bmff"
)

func newBrandsCmd(opts *globalOptions) *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "brands FILE",
		Short: "List the ftyp brands of a file",
		Long: `List the major and compatible brands declared by the ftyp box.

With --check, report whether the given 4-character brand is declared and
fail if it is not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("check") {
				if _, err := bmff.ParseBrand(check); err != nil {
					return err
				}
				ok := cr3.CompatibleBrand(data, check)
				fmt.Fprintf(out, "%q: %v\n", check, ok)
				if !ok {
					return fmt.Errorf("%s does not declare brand %q", args[0], check)
				}
				return nil
			}

			brands, err := cr3.Brands(data)
			if err != nil {
				return err
			}
			opts.logger.Debug("brands", "path", args[0], "count", len(brands))
			for i, b := range brands {
				role := "compatible"
				if i == 0 {
					role = "major"
				}
				fmt.Fprintf(out, "%q\t%s\n", b.String(), role)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "brand to test for")

	return cmd
}
