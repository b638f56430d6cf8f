package exec

import "context"

// MockCommandExecutor records commands instead of running them.
type MockCommandExecutor struct {
	Commands []Command

	// LookPathFunc overrides LookPath; by default every file resolves.
	LookPathFunc func(file string) (string, error)
	// ExecuteErr is returned by every Execute call when set.
	ExecuteErr error
}

func (e *MockCommandExecutor) LookPath(file string) (string, error) {
	if e.LookPathFunc != nil {
		return e.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (e *MockCommandExecutor) Execute(ctx context.Context, cmd Command) error {
	e.Commands = append(e.Commands, cmd)
	return e.ExecuteErr
}
