package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"travlint/pkg/cliutil"
	"travlint/pkg/lint"
)

func init() {
	var flags struct {
		Format string
	}
	cmd := &cobra.Command{
		Use:   "lint [flags] [TRAVIS_YML]",
		Short: "Check a manifest for configuration problems",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		Long: "Parse a manifest and check its configuration validity: top-level keys " +
			"the CI runner would not recognize, matrix entries that select no script " +
			"branch (or several), unquoted version numbers, and EXIT_STATUS blocks " +
			"that lose failures." +
			"\n\n" +
			"The exit status is 1 if any error-level finding is reported, 0 otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := manifestPath(args)
			cfg, err := loadManifest(filename)
			if err != nil {
				return err
			}

			report := lint.Check(cfg)

			switch flags.Format {
			case "text":
				for _, finding := range report.Findings {
					fmt.Printf("%s: %s\n", filename, finding)
				}
			case "json":
				bs, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				bs = append(bs, '\n')
				if _, err := os.Stdout.Write(bs); err != nil {
					return err
				}
			case "yaml":
				bs, err := yaml.Marshal(report)
				if err != nil {
					return err
				}
				if _, err := os.Stdout.Write(bs); err != nil {
					return err
				}
			default:
				return cliutil.FlagErrorFunc(cmd, fmt.Errorf("invalid format %q", flags.Format))
			}

			if report.HasErrors() {
				return fmt.Errorf("%s: configuration is not valid", filename)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Format, "format", "text", "Report `FORMAT`: text, json, or yaml")

	argparser.AddCommand(cmd)
}
