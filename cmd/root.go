// Package cmd wires the sweeprun CLI.
package cmd

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runlab/sweeprun/pkg/settings"
)

// NewRootCommand builds the sweeprun command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sweeprun",
		Short:         "Plan and execute batches of experiment runs",
		Long:          "sweeprun enumerates configuration sweeps from a declarative sweep file\nand executes one training run per enumerated configuration, sequentially.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewPlanCmd())
	rootCmd.AddCommand(NewSettingsCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// configureLogging applies the settings' log level to the shared logger.
func configureLogging(s settings.Settings) *logrus.Logger {
	log := logrus.StandardLogger()
	level, err := logrus.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
