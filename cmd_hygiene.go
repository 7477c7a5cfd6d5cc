package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travlint/pkg/cliutil"
	"travlint/pkg/hygiene"
)

func init() {
	var flags struct {
		Allow  []string
		Hidden bool
	}
	cmd := &cobra.Command{
		Use:   "hygiene [flags] [DIR]",
		Short: "Check a repository for stray symlinks",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		Long: "Walk a repository and report symlinked files outside the allowed " +
			"directories.  This is the check the manifest's script encodes with " +
			"`find . -type l`; running it locally catches the problem before a " +
			"build does." +
			"\n\n" +
			"With --hidden, additionally report dot-prefixed files and " +
			"directories, which the file server refuses to serve.",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			stray, err := hygiene.Scan(cmd.Context(), root, flags.Allow...)
			if err != nil {
				return err
			}
			for _, path := range stray {
				fmt.Println(path)
			}

			var hidden []string
			if flags.Hidden {
				hidden, err = hygiene.ScanHidden(cmd.Context(), root)
				if err != nil {
					return err
				}
				for _, path := range hidden {
					fmt.Println(path)
				}
			}

			switch {
			case len(stray) > 0 && len(hidden) > 0:
				return fmt.Errorf("%d stray symlinks, %d hidden paths", len(stray), len(hidden))
			case len(stray) > 0:
				return fmt.Errorf("%d stray symlinks", len(stray))
			case len(hidden) > 0:
				return fmt.Errorf("%d hidden paths", len(hidden))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&flags.Allow, "allow", []string{"git-hooks"},
		"Allow symlinks under `DIR` (repeatable)")
	cmd.Flags().BoolVar(&flags.Hidden, "hidden", false,
		"Also report dot-prefixed (hidden) files and directories")

	argparser.AddCommand(cmd)
}
