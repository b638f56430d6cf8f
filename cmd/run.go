package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runlab/sweeprun/pkg/driver"
	"github.com/runlab/sweeprun/pkg/output"
	"github.com/runlab/sweeprun/pkg/settings"
	"github.com/runlab/sweeprun/pkg/sweepfile"
)

var (
	runSettingsFile string
	runOutDir       string
	runRunnerKind   string
	runDryRun       bool
)

// NewRunCmd builds the run command.
func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <sweep-file>",
		Short: "Execute every run of a sweep, sequentially",
		Long: `Execute a sweep defined in a YAML sweep file.
Each enumerated configuration gets a unique run name, an output directory
under the configured out_dir, and one synchronous invocation of the trainer
command. The sweep halts at the first failing run.`,
		Args: cobra.ExactArgs(1),
		RunE: runSweep,
	}
	runCmd.Flags().StringVarP(&runSettingsFile, "settings", "s", "", "Path to a settings file (default ./settings.yaml)")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "", "Override the output root directory")
	runCmd.Flags().StringVarP(&runRunnerKind, "runner", "r", "", "Runner kind: shell or mock (default from the sweep file, then shell)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Enumerate run names without executing anything")
	return runCmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	if runDryRun {
		return printPlan(cmd, args[0], runSettingsFile, false)
	}

	loaded, err := settings.Load(runSettingsFile)
	if err != nil {
		return err
	}
	if runOutDir != "" {
		loaded.OutDir = runOutDir
	}
	log := configureLogging(loaded)

	store, err := settings.NewStore(loaded)
	if err != nil {
		return err
	}
	store.OnChange(func(key string, oldValue, newValue interface{}) {
		log.WithFields(logrus.Fields{
			"setting": key,
			"from":    fmt.Sprintf("%v", oldValue),
			"to":      fmt.Sprintf("%v", newValue),
		}).Debug("Setting changed")
	})

	file, root, err := sweepfile.Load(args[0], store)
	if err != nil {
		return err
	}

	runner, err := selectRunner(file, store.Snapshot())
	if err != nil {
		return err
	}

	writer := output.NewWriter(store.Snapshot().OutDir, log)
	completed, err := driver.New(store, writer, runner, log).Run(context.Background(), root)
	if err != nil {
		color.Red("Sweep halted after %d completed run(s): %v", completed, err)
		return err
	}
	color.Green("Sweep completed: %d run(s)", completed)
	return nil
}

// selectRunner resolves the runner kind from the --runner flag, then the
// sweep file, then the shell default.
func selectRunner(file *sweepfile.File, snapshot settings.Settings) (driver.Runner, error) {
	registry := driver.NewRunnerRegistry()
	registry.Register(&driver.MockRunner{})
	if snapshot.TrainerCommand != "" {
		shell, err := driver.NewShellRunner(snapshot.TrainerCommand, nil)
		if err != nil {
			return nil, err
		}
		registry.Register(shell)
	}

	kind := runRunnerKind
	if kind == "" {
		kind = file.Runner
	}
	if kind == "" {
		kind = "shell"
	}
	runner, err := registry.Get(kind)
	if err != nil {
		if kind == "shell" && snapshot.TrainerCommand == "" {
			return nil, fmt.Errorf("no trainer_command configured; set it in the settings file or use --runner=mock")
		}
		return nil, err
	}
	return runner, nil
}
