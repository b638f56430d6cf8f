// Package sweepfile loads a declarative YAML sweep definition and builds the
// corresponding planner tree against a settings store.
package sweepfile

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runlab/sweeprun/pkg/planner"
)

// Node is one planner node in a sweep file. Exactly one of Setting, Sequence,
// Parallel or Combinator must be set. A setting node lists its values
// explicitly or as an inclusive start/end/step range.
type Node struct {
	Setting string        `yaml:"setting,omitempty" json:"setting,omitempty"`
	Values  []interface{} `yaml:"values,omitempty" json:"values,omitempty"`
	Start   *float64      `yaml:"start,omitempty" json:"start,omitempty"`
	End     *float64      `yaml:"end,omitempty" json:"end,omitempty"`
	Step    *float64      `yaml:"step,omitempty" json:"step,omitempty"`

	Sequence   []*Node `yaml:"sequence,omitempty" json:"sequence,omitempty"`
	Parallel   []*Node `yaml:"parallel,omitempty" json:"parallel,omitempty"`
	Combinator []*Node `yaml:"combinator,omitempty" json:"combinator,omitempty"`

	Basename string `yaml:"basename,omitempty" json:"basename,omitempty"`
	// Restore applies to sequence nodes: finished children put their settings
	// back before the next child starts.
	Restore bool `yaml:"restore,omitempty" json:"restore,omitempty"`
}

// File is the top-level sweep definition.
type File struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Runner string `yaml:"runner,omitempty" json:"runner,omitempty"`
	Sweep  *Node  `yaml:"sweep" json:"sweep"`
}

// Load reads a sweep file and builds its planner tree against the store.
func Load(path string, store planner.Store) (*File, planner.Planner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sweep file: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if file.Sweep == nil {
		return nil, nil, fmt.Errorf("%s: missing top-level sweep node", path)
	}
	root, err := file.Sweep.Build(store)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return &file, root, nil
}

// Build constructs the planner for this node and its children.
func (n *Node) Build(store planner.Store) (planner.Planner, error) {
	kinds := 0
	if n.Setting != "" {
		kinds++
	}
	for _, children := range [][]*Node{n.Sequence, n.Parallel, n.Combinator} {
		if children != nil {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, fmt.Errorf("node must have exactly one of setting, sequence, parallel or combinator")
	}

	var opts []planner.Option
	if n.Basename != "" {
		opts = append(opts, planner.WithBasename(n.Basename))
	}

	switch {
	case n.Setting != "":
		values, err := n.settingValues()
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", n.Setting, err)
		}
		return planner.NewLeaf(store, n.Setting, values, opts...)
	case n.Sequence != nil:
		children, err := buildChildren(n.Sequence, store)
		if err != nil {
			return nil, err
		}
		if n.Restore {
			opts = append(opts, planner.WithRestore())
		}
		return planner.NewSequence(children, opts...)
	case n.Parallel != nil:
		children, err := buildChildren(n.Parallel, store)
		if err != nil {
			return nil, err
		}
		return planner.NewParallel(children, opts...)
	default:
		children, err := buildChildren(n.Combinator, store)
		if err != nil {
			return nil, err
		}
		return planner.NewCombinator(children, opts...)
	}
}

func buildChildren(nodes []*Node, store planner.Store) ([]planner.Planner, error) {
	children := make([]planner.Planner, 0, len(nodes))
	for i, node := range nodes {
		child, err := node.Build(store)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, child)
	}
	return children, nil
}

// settingValues returns the explicit value list, or expands an inclusive
// start/end/step range. Whole-number ranges expand to ints so fragments read
// "nb_epoch-5" rather than "nb_epoch-5.000000".
func (n *Node) settingValues() ([]interface{}, error) {
	if len(n.Values) > 0 {
		if n.Start != nil || n.End != nil || n.Step != nil {
			return nil, fmt.Errorf("values and start/end/step are mutually exclusive")
		}
		return n.Values, nil
	}
	if n.Start == nil || n.End == nil || n.Step == nil {
		return nil, fmt.Errorf("either values or all of start, end and step are required")
	}
	start, end, step := *n.Start, *n.End, *n.Step
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %g", step)
	}
	if end < start {
		return nil, fmt.Errorf("end %g is below start %g", end, start)
	}

	integral := start == math.Trunc(start) && step == math.Trunc(step)
	var values []interface{}
	for v := start; v <= end+1e-9; v += step {
		if integral {
			values = append(values, int(math.Round(v)))
		} else {
			values = append(values, v)
		}
	}
	return values, nil
}
