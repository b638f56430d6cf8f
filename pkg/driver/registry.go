package driver

import "fmt"

// RunnerRegistry manages the available run executors by kind.
type RunnerRegistry struct {
	runners map[string]Runner
}

// NewRunnerRegistry creates an empty registry.
func NewRunnerRegistry() *RunnerRegistry {
	return &RunnerRegistry{runners: make(map[string]Runner)}
}

// Register adds a runner under its own name.
func (r *RunnerRegistry) Register(runner Runner) {
	r.runners[runner.Name()] = runner
}

// Get returns the runner for a kind.
func (r *RunnerRegistry) Get(kind string) (Runner, error) {
	runner, exists := r.runners[kind]
	if !exists {
		return nil, fmt.Errorf("no runner registered for kind: %s", kind)
	}
	return runner, nil
}
