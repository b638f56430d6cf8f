// Package planner enumerates the configuration overrides of an experiment
// sweep. A planner tree is built from leaves (one setting, a list of values)
// and composites (sequence, parallel, combinator); iterating the root mutates
// a shared settings store in place and yields one run name per step.
package planner

import "fmt"

// Store is the configuration surface a leaf planner mutates. Set validates
// the resulting state synchronously and reports a failure without committing.
type Store interface {
	Get(key string) (interface{}, error)
	Set(key string, value interface{}) error
}

// Planner is one node of a sweep plan.
//
// Begin restarts enumeration from scratch. Advance performs one step: it
// returns (name, true, nil) after mutating the store, ("", false, nil) on
// normal exhaustion, or a non-nil error when a mutation is rejected or the
// tree reaches an inconsistent state. Advancing an exhausted node keeps
// returning exhaustion. Length is the total number of steps, computed
// structurally without iterating.
type Planner interface {
	Begin() error
	Advance() (string, bool, error)
	Length() int
}

// Restorer is implemented by planners that can put the settings they overrode
// back to the values observed at Begin. All planners in this package
// implement it; SequencePlanner relies on it when restoration is enabled.
type Restorer interface {
	Restore() error
}

// StructuralError reports a malformed plan: an empty child list, mismatched
// lengths under a parallel node, or a zero-length child under a combinator.
// It is raised when the tree is built or begun, never in the middle of a
// sweep, so a bad plan never starts executing runs.
type StructuralError struct {
	Node   string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("invalid %s planner: %s", e.Node, e.Reason)
}

// Option configures a planner node.
type Option func(*options)

type options struct {
	basename string
	restore  bool
}

// WithBasename names the runs produced by this node "basename-001",
// "basename-002", ... instead of the descriptive setting-value form.
func WithBasename(name string) Option {
	return func(o *options) { o.basename = name }
}

// WithRestore makes a SequencePlanner restore the settings a finished child
// overrode before starting the next child. Other planner kinds ignore it.
func WithRestore() Option {
	return func(o *options) { o.restore = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// namer tracks the per-node step counter and applies the basename form when
// one was supplied. The counter increments on every successful advance of the
// node, whatever its nesting depth, and is reset by Begin so a restarted
// planner reproduces the same names.
type namer struct {
	basename string
	count    int
}

func (n *namer) reset() { n.count = 0 }

// step registers one successful advance and returns the node's name for it.
func (n *namer) step(descriptive string) string {
	n.count++
	if n.basename != "" {
		return fmt.Sprintf("%s-%03d", n.basename, n.count)
	}
	return descriptive
}
