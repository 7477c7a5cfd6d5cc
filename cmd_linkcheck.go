package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travlint/pkg/cliutil"
	"travlint/pkg/docscheck"
)

func init() {
	cmd := &cobra.Command{
		Use:   "linkcheck [flags] HTML_DIR",
		Short: "Check built documentation for broken relative links",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		Long: "Parse every .html file under HTML_DIR and verify that relative " +
			"references resolve to files that exist.  External URLs are not " +
			"fetched; this is the offline portion of what the docs branch's " +
			"cron-only link-check step does.",
		RunE: func(cmd *cobra.Command, args []string) error {
			broken, err := docscheck.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, link := range broken {
				fmt.Printf("%s: %s\n", link.File, link.Ref)
			}
			if len(broken) > 0 {
				return fmt.Errorf("%d broken links", len(broken))
			}
			return nil
		},
	}

	argparser.AddCommand(cmd)
}
