package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"travlint/pkg/cliutil"
	"travlint/pkg/travis"
)

func init() {
	var flags struct {
		BuildDir string
	}
	cmd := &cobra.Command{
		Use:   "inspect [flags] [TRAVIS_YML] >NORMALIZED_YML",
		Short: "Dump the normalized form of a manifest",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		Long: "Parse a manifest, normalize its polymorphic fields (scalar-or-list " +
			"phases, numeric versions, short-form env), and dump the result as YAML.  " +
			"The cache directory set is additionally shown with $TRAVIS_BUILD_DIR " +
			"and the global env assignments expanded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadManifest(manifestPath(args))
			if err != nil {
				return err
			}

			var out struct {
				travis.Config `yaml:",inline"`
				ResolvedCache []string `yaml:"resolved_cache,omitempty"`
			}
			out.Config = *cfg

			if cfg.Cache != nil {
				var global travis.Env
				if cfg.Env != nil {
					for _, row := range cfg.Env.Global {
						global = append(global, row...)
					}
				}
				base := map[string]string{
					"TRAVIS_BUILD_DIR": flags.BuildDir,
					"HOME":             os.Getenv("HOME"),
				}
				for _, dir := range cfg.Cache.Directories {
					out.ResolvedCache = append(out.ResolvedCache, global.Expand(dir, base))
				}
			}

			bs, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(bs)
			return err
		},
	}
	cmd.Flags().StringVar(&flags.BuildDir, "build-dir", ".",
		"Use `DIR` as the value of TRAVIS_BUILD_DIR during expansion")

	argparser.AddCommand(cmd)
}
