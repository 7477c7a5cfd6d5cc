package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"travlint/pkg/cliutil"
)

func init() {
	cmd := &cobra.Command{
		Use:   "matrix [flags] [TRAVIS_YML]",
		Short: "Print the expanded build matrix",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		Long: "Expand the manifest's build matrix (the version list crossed with the " +
			"env.matrix rows, with matrix.exclude and matrix.include applied) and " +
			"print one row per entry, annotated with the GROUP the entry selects and " +
			"whether its failure is tolerated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadManifest(manifestPath(args))
			if err != nil {
				return err
			}

			type row struct {
				Python       string `yaml:"python,omitempty"`
				Env          string `yaml:"env,omitempty"`
				Group        string `yaml:"group,omitempty"`
				AllowFailure bool   `yaml:"allow_failure,omitempty"`
			}
			entries := cfg.Entries()
			rows := make([]row, 0, len(entries))
			for _, entry := range entries {
				group, _ := entry.Group()
				rows = append(rows, row{
					Python:       entry.Python.Value,
					Env:          entry.Env.String(),
					Group:        string(group),
					AllowFailure: cfg.AllowedFailure(entry),
				})
			}

			bs, err := yaml.Marshal(rows)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(bs)
			return err
		},
	}

	argparser.AddCommand(cmd)
}
