// Command travlint lints and explains Travis CI build manifests.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"travlint/pkg/cliutil"
)

var argparser = &cobra.Command{
	Use:   "travlint {[flags]|SUBCOMMAND...}",
	Short: "Lint and explain Travis CI build manifests",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

var logLevelNames = func() []string {
	names := make([]string, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		names = append(names, level.String())
	}
	return names
}()

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	var argLogLevel string
	argparser.PersistentFlags().StringVar(&argLogLevel, "log-level", "warning",
		fmt.Sprintf("Log `LEVEL` (%v)", logLevelNames))
	argparser.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		level, err := logrus.ParseLevel(argLogLevel)
		if err != nil {
			return cliutil.FlagErrorFunc(cmd, err)
		}
		logger.SetLevel(level)
		return nil
	}

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
