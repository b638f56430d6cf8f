package planner

import (
	"fmt"
	"strings"
)

// ParallelPlanner advances all of its children in lockstep: one advance of
// this node advances every child exactly once, so several settings change
// together on each step. This is simultaneous setting changes, not concurrent
// execution. All children must have the same length, checked at construction.
type ParallelPlanner struct {
	children []Planner
	namer    namer
}

// NewParallel creates a lockstep composition of child planners. Children with
// mismatched lengths are rejected immediately, naming the offending lengths,
// so a malformed plan never starts executing runs.
func NewParallel(children []Planner, opts ...Option) (*ParallelPlanner, error) {
	if len(children) == 0 {
		return nil, &StructuralError{Node: "parallel", Reason: "empty child list"}
	}
	want := children[0].Length()
	for i, child := range children[1:] {
		if got := child.Length(); got != want {
			return nil, &StructuralError{
				Node:   "parallel",
				Reason: fmt.Sprintf("children must have equal lengths, child 0 has %d but child %d has %d", want, i+1, got),
			}
		}
	}
	o := applyOptions(opts)
	return &ParallelPlanner{
		children: append([]Planner(nil), children...),
		namer:    namer{basename: o.basename},
	}, nil
}

// Begin restarts every child.
func (p *ParallelPlanner) Begin() error {
	for _, child := range p.children {
		if err := child.Begin(); err != nil {
			return err
		}
	}
	p.namer.reset()
	return nil
}

// Advance steps every child once, in order. Because lengths are equal the
// children exhaust simultaneously; one child ending while a sibling still
// yields values is an unrecoverable inconsistency and aborts the sweep.
func (p *ParallelPlanner) Advance() (string, bool, error) {
	fragments := make([]string, 0, len(p.children))
	exhausted := 0
	for _, child := range p.children {
		fragment, ok, err := child.Advance()
		if err != nil {
			return "", false, err
		}
		if !ok {
			exhausted++
			continue
		}
		fragments = append(fragments, fragment)
	}
	switch exhausted {
	case 0:
		return p.namer.step(strings.Join(fragments, "_")), true, nil
	case len(p.children):
		return "", false, nil
	default:
		return "", false, &StructuralError{
			Node:   "parallel",
			Reason: fmt.Sprintf("%d of %d children exhausted before their siblings", exhausted, len(p.children)),
		}
	}
}

// Length equals any one child's length.
func (p *ParallelPlanner) Length() int {
	return p.children[0].Length()
}

// Restore forwards to every child that supports it.
func (p *ParallelPlanner) Restore() error {
	for i, child := range p.children {
		r, ok := child.(Restorer)
		if !ok {
			continue
		}
		if err := r.Restore(); err != nil {
			return fmt.Errorf("restoring child %d: %w", i, err)
		}
	}
	return nil
}
