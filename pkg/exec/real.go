package exec

import (
	"context"
	"fmt"
	"os"
	osexec "os/exec"
)

// ExecError wraps an execution failure with the combined command output, so
// the driver can log what the training process printed before dying.
type ExecError struct {
	Err    error
	Output string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Output)
}

func (e *ExecError) Unwrap() error { return e.Err }

// RealCommandExecutor implements CommandExecutor with os/exec. This is the
// production implementation that spawns the actual training process.
type RealCommandExecutor struct{}

// LookPath resolves the executable through the PATH environment variable.
func (e *RealCommandExecutor) LookPath(file string) (string, error) {
	return osexec.LookPath(file)
}

// Execute runs the command and waits for it. Output is captured and attached
// to the returned error on failure.
func (e *RealCommandExecutor) Execute(ctx context.Context, cmd Command) error {
	c := osexec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	output, err := c.CombinedOutput()
	if err != nil {
		return &ExecError{Err: err, Output: string(output)}
	}
	return nil
}
