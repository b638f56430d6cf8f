package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/runlab/sweeprun/pkg/exec"
	"github.com/runlab/sweeprun/pkg/output"
	"github.com/runlab/sweeprun/pkg/settings"
)

// ShellRunner invokes the configured trainer command for every run. The run
// name, run directory and settings snapshot location are exposed through
// SWEEP_* environment variables; the command runs inside the run directory.
//
// The command string is split on whitespace, there is no shell quoting.
type ShellRunner struct {
	command  string
	executor exec.CommandExecutor
}

// NewShellRunner creates a shell runner around a trainer command line.
func NewShellRunner(command string, executor exec.CommandExecutor) (*ShellRunner, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("empty trainer command")
	}
	if executor == nil {
		executor = &exec.RealCommandExecutor{}
	}
	return &ShellRunner{command: command, executor: executor}, nil
}

// Name returns the runner kind.
func (r *ShellRunner) Name() string { return "shell" }

// Validate checks that the trainer executable resolves before the sweep
// starts, so a misspelled command fails before the first run directory is
// created.
func (r *ShellRunner) Validate() error {
	parts := strings.Fields(r.command)
	if _, err := r.executor.LookPath(parts[0]); err != nil {
		return fmt.Errorf("trainer command %q: %w", parts[0], err)
	}
	return nil
}

// Run executes the trainer command for one run and waits for it.
func (r *ShellRunner) Run(ctx context.Context, runName string, snapshot settings.Settings, runDir string) error {
	parts := strings.Fields(r.command)
	cmd := exec.Command{
		Name: parts[0],
		Args: parts[1:],
		Dir:  runDir,
		Env: []string{
			"SWEEP_RUN_NAME=" + runName,
			"SWEEP_RUN_DIR=" + runDir,
			"SWEEP_SETTINGS_FILE=" + filepath.Join(runDir, output.SettingsFileName),
		},
	}
	if err := r.executor.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("trainer process: %w", err)
	}
	return nil
}
