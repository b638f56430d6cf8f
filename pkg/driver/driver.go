// Package driver executes an experiment sweep: it iterates a planner tree,
// assigns each produced name as the run identifier and invokes one training
// run per step, strictly sequentially.
package driver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/runlab/sweeprun/pkg/output"
	"github.com/runlab/sweeprun/pkg/planner"
	"github.com/runlab/sweeprun/pkg/settings"
)

// Runner executes one training run synchronously.
type Runner interface {
	Name() string
	Run(ctx context.Context, runName string, snapshot settings.Settings, runDir string) error
}

// Validator is implemented by runners that can check their prerequisites
// before the first run starts.
type Validator interface {
	Validate() error
}

// Driver iterates a root planner and executes one run per enumerated name.
// Any error, from the configuration store, the output writer or the run
// itself, halts the sweep immediately: after a failure the settings sit at an
// unspecified position in the tree and iteration cannot safely resume.
type Driver struct {
	store  *settings.Store
	out    *output.Writer
	runner Runner
	log    *logrus.Logger
}

// New creates a driver. A nil logger falls back to the standard one.
func New(store *settings.Store, out *output.Writer, runner Runner, log *logrus.Logger) *Driver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Driver{store: store, out: out, runner: runner, log: log}
}

// Run executes the whole sweep and returns the number of completed runs.
func (d *Driver) Run(ctx context.Context, root planner.Planner) (int, error) {
	if v, ok := d.runner.(Validator); ok {
		if err := v.Validate(); err != nil {
			return 0, fmt.Errorf("runner %q not ready: %w", d.runner.Name(), err)
		}
	}

	sweepID := uuid.NewString()
	total := root.Length()
	log := d.log.WithFields(logrus.Fields{"sweep_id": sweepID, "runner": d.runner.Name()})
	log.WithField("total", total).Info("Starting sweep")

	if err := root.Begin(); err != nil {
		return 0, fmt.Errorf("begin sweep: %w", err)
	}

	completed := 0
	for {
		if err := ctx.Err(); err != nil {
			return completed, err
		}

		runName, ok, err := root.Advance()
		if err != nil {
			return completed, fmt.Errorf("advancing sweep after %d runs: %w", completed, err)
		}
		if !ok {
			break
		}

		if err := d.store.Set("run_name", runName); err != nil {
			return completed, fmt.Errorf("assigning run name: %w", err)
		}

		runDir, err := d.out.InitRunDirectory(runName, d.store.Snapshot())
		if err != nil {
			return completed, fmt.Errorf("preparing run %q: %w", runName, err)
		}

		step := completed + 1
		log.WithFields(logrus.Fields{
			"run_name": runName,
			"step":     step,
			"total":    total,
		}).Info("Starting run")

		if err := d.runner.Run(ctx, runName, d.store.Snapshot(), runDir); err != nil {
			log.WithError(err).WithField("run_name", runName).Error("Run failed, halting sweep")
			return completed, fmt.Errorf("run %q failed: %w", runName, err)
		}
		completed++
	}

	log.WithFields(logrus.Fields{"completed": completed, "total": total}).Info("Sweep finished")
	return completed, nil
}
