package exec

import "context"

// Command describes one external invocation of the training entry point.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory, usually the run output directory
	Env  []string // extra KEY=VALUE pairs appended to the parent environment
}

// CommandExecutor runs external commands on behalf of the sweep driver.
// The abstraction exists so runner tests never spawn real processes.
type CommandExecutor interface {
	// LookPath reports where the executable would be resolved from, before
	// any run starts.
	LookPath(file string) (string, error)

	// Execute runs the command to completion and returns any error.
	Execute(ctx context.Context, cmd Command) error
}
