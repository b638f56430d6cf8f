package cmd

import (
	"fmt"

	"github.com/runlab/sweeprun/pkg/planner"
)

// enumerate walks a planner tree to the end and collects every run name.
func enumerate(root planner.Planner) ([]string, error) {
	if err := root.Begin(); err != nil {
		return nil, err
	}
	names := make([]string, 0, root.Length())
	for {
		name, ok, err := root.Advance()
		if err != nil {
			return nil, fmt.Errorf("enumerating sweep: %w", err)
		}
		if !ok {
			return names, nil
		}
		names = append(names, name)
	}
}
