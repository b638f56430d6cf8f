package driver

import (
	"context"
	"fmt"

	"github.com/runlab/sweeprun/pkg/settings"
)

// MockRunner records every run instead of executing anything. Used in tests
// and by the --runner=mock flag to rehearse a sweep.
type MockRunner struct {
	RunNames  []string
	Snapshots []settings.Settings

	// FailOn aborts the run with an error when its name matches.
	FailOn string
}

// Name returns the runner kind.
func (r *MockRunner) Name() string { return "mock" }

// Run records the run and fails if its name matches FailOn.
func (r *MockRunner) Run(ctx context.Context, runName string, snapshot settings.Settings, runDir string) error {
	if r.FailOn != "" && runName == r.FailOn {
		return fmt.Errorf("injected failure for run %q", runName)
	}
	r.RunNames = append(r.RunNames, runName)
	r.Snapshots = append(r.Snapshots, snapshot)
	return nil
}
