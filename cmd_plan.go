package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"travlint/pkg/cliutil"
	"travlint/pkg/plan"
	"travlint/pkg/travis"
)

// envValue is a repeatable --env KEY=VALUE flag, accumulating in to a
// travis.Env.
type envValue struct {
	env *travis.Env
}

var _ pflag.Value = envValue{}

func (v envValue) String() string {
	if v.env == nil {
		return ""
	}
	return v.env.String()
}

func (v envValue) Set(str string) error {
	parsed, err := travis.ParseEnv(str)
	if err != nil {
		return err
	}
	*v.env = append(*v.env, parsed...)
	return nil
}

func (v envValue) Type() string {
	return "KEY=VALUE"
}

func init() {
	var flags struct {
		Entry  int
		Python string
		Env    travis.Env
		Event  string
	}
	cmd := &cobra.Command{
		Use:   "plan [flags] [TRAVIS_YML]",
		Short: "Print the steps one matrix entry would run",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		Long: "Resolve the ordered step sequence the CI runner would attempt for one " +
			"build-matrix entry: phase items whose GROUP guard matches the entry, " +
			"with TRAVIS_EVENT_TYPE-gated commands included only for the matching " +
			"--event.  Each step is shown with what its failure would mean " +
			"(halt the build, fail it, defer in to EXIT_STATUS, or be ignored)." +
			"\n\n" +
			"Select the entry either by --entry index in to the expanded matrix, or " +
			"by giving --python and --env directly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadManifest(manifestPath(args))
			if err != nil {
				return err
			}

			event, err := plan.ParseEventType(flags.Event)
			if err != nil {
				return cliutil.FlagErrorFunc(cmd, err)
			}

			var entry travis.Entry
			switch {
			case flags.Entry >= 0:
				entries := cfg.Entries()
				if flags.Entry >= len(entries) {
					return fmt.Errorf("--entry=%d: the expanded matrix has %d entries",
						flags.Entry, len(entries))
				}
				entry = entries[flags.Entry]
			default:
				entry = travis.Entry{
					Python: travis.Version{Value: flags.Python},
					Env:    flags.Env,
				}
			}

			p, err := plan.Resolve(cfg, entry, event)
			if err != nil {
				return err
			}

			table := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			for _, step := range p.Steps {
				fmt.Fprintf(table, "%s\t%s\t%s\n", step.Phase, step.Failure, step.Command)
			}
			return table.Flush()
		},
	}
	cmd.Flags().IntVar(&flags.Entry, "entry", -1, "Use entry `N` of the expanded matrix")
	cmd.Flags().StringVar(&flags.Python, "python", "", "Runtime `VERSION` of the entry")
	cmd.Flags().Var(envValue{&flags.Env}, "env", "Environment assignment for the entry (repeatable)")
	cmd.Flags().StringVar(&flags.Event, "event", string(plan.EventPush),
		"Build `EVENT` type: push, pull_request, cron, or api")

	argparser.AddCommand(cmd)
}
