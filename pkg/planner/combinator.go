package planner

import (
	"fmt"
	"strings"
)

// CombinatorPlanner enumerates every combination of its children's values,
// the Cartesian product, using a mixed-radix odometer: child 0 is the
// fastest-varying digit and advances on every step; when a child is exhausted
// it is reset to its first value and the carry moves to the next child.
// Carry past the last child ends the enumeration.
type CombinatorPlanner struct {
	children []Planner
	namer    namer

	// fragments caches each child's most recently produced name fragment;
	// children that did not move on a step keep their cached fragment.
	fragments []string
	first     bool
	done      bool
}

// NewCombinator creates a Cartesian-product composition of child planners.
// A zero-length child would make the product empty and is rejected here
// rather than silently producing no runs.
func NewCombinator(children []Planner, opts ...Option) (*CombinatorPlanner, error) {
	if len(children) == 0 {
		return nil, &StructuralError{Node: "combinator", Reason: "empty child list"}
	}
	for i, child := range children {
		if child.Length() == 0 {
			return nil, &StructuralError{
				Node:   "combinator",
				Reason: fmt.Sprintf("child %d has length 0, the product would be empty", i),
			}
		}
	}
	o := applyOptions(opts)
	return &CombinatorPlanner{
		children:  append([]Planner(nil), children...),
		namer:     namer{basename: o.basename},
		fragments: make([]string, len(children)),
		first:     true,
	}, nil
}

// Begin restarts every child and re-arms the initial combination.
func (p *CombinatorPlanner) Begin() error {
	for _, child := range p.children {
		if err := child.Begin(); err != nil {
			return err
		}
	}
	p.fragments = make([]string, len(p.children))
	p.first = true
	p.done = false
	p.namer.reset()
	return nil
}

// Advance produces the next combination. The first call steps every child to
// its first value with no carry logic, establishing the initial combination;
// afterwards each call advances child 0 and propagates carries.
func (p *CombinatorPlanner) Advance() (string, bool, error) {
	if p.done {
		return "", false, nil
	}
	if p.first {
		p.first = false
		for i, child := range p.children {
			fragment, ok, err := child.Advance()
			if err != nil {
				return "", false, err
			}
			if !ok {
				// Lengths were checked at construction; an immediately
				// exhausted child means it was begun elsewhere mid-sweep.
				return "", false, &StructuralError{
					Node:   "combinator",
					Reason: fmt.Sprintf("child %d yielded no first value", i),
				}
			}
			p.fragments[i] = fragment
		}
		return p.namer.step(p.name()), true, nil
	}

	for i, child := range p.children {
		fragment, ok, err := child.Advance()
		if err != nil {
			return "", false, err
		}
		if ok {
			p.fragments[i] = fragment
			return p.namer.step(p.name()), true, nil
		}

		// Child i rolled over. If it is the slowest digit the whole
		// enumeration is over; otherwise reset it to its first value and let
		// the loop carry into child i+1.
		if i == len(p.children)-1 {
			p.done = true
			return "", false, nil
		}
		if err := child.Begin(); err != nil {
			return "", false, err
		}
		fragment, ok, err = child.Advance()
		if err != nil {
			return "", false, err
		}
		if !ok {
			return "", false, &StructuralError{
				Node:   "combinator",
				Reason: fmt.Sprintf("child %d yielded no value after reset", i),
			}
		}
		p.fragments[i] = fragment
	}
	// Unreachable: the loop always returns or carries past the last child.
	return "", false, nil
}

func (p *CombinatorPlanner) name() string {
	return strings.Join(p.fragments, "_")
}

// Length is the product of the children's lengths.
func (p *CombinatorPlanner) Length() int {
	total := 1
	for _, child := range p.children {
		total *= child.Length()
	}
	return total
}

// Restore forwards to every child that supports it.
func (p *CombinatorPlanner) Restore() error {
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
