package planner

import "fmt"

// SequencePlanner runs its children back-to-back: the first child is fully
// exhausted before the second starts, with no interleaving. Its length is the
// sum of the children's lengths.
type SequencePlanner struct {
	children []Planner
	namer    namer
	restore  bool

	current int
}

// NewSequence creates a sequential composition of child planners. With
// WithRestore, every child must implement Restorer; the settings a finished
// child overrode are then put back before the next child begins.
func NewSequence(children []Planner, opts ...Option) (*SequencePlanner, error) {
	if len(children) == 0 {
		return nil, &StructuralError{Node: "sequence", Reason: "empty child list"}
	}
	o := applyOptions(opts)
	if o.restore {
		for i, child := range children {
			if _, ok := child.(Restorer); !ok {
				return nil, &StructuralError{
					Node:   "sequence",
					Reason: fmt.Sprintf("restore requested but child %d cannot restore settings", i),
				}
			}
		}
	}
	return &SequencePlanner{
		children: append([]Planner(nil), children...),
		namer:    namer{basename: o.basename},
		restore:  o.restore,
	}, nil
}

// Begin restarts from the first child.
func (p *SequencePlanner) Begin() error {
	p.current = 0
	p.namer.reset()
	return p.children[0].Begin()
}

// Advance delegates to the current child, moving to the next one when it is
// exhausted. The whole node is exhausted once the last child is.
func (p *SequencePlanner) Advance() (string, bool, error) {
	for p.current < len(p.children) {
		child := p.children[p.current]
		fragment, ok, err := child.Advance()
		if err != nil {
			return "", false, err
		}
		if ok {
			return p.namer.step(fragment), true, nil
		}

		if p.restore {
			if err := child.(Restorer).Restore(); err != nil {
				return "", false, fmt.Errorf("restoring settings after child %d: %w", p.current, err)
			}
		}
		p.current++
		if p.current < len(p.children) {
			if err := p.children[p.current].Begin(); err != nil {
				return "", false, err
			}
		}
	}
	return "", false, nil
}

// Length is the sum of the children's lengths.
func (p *SequencePlanner) Length() int {
	total := 0
	for _, child := range p.children {
		total += child.Length()
	}
	return total
}

// Restore forwards to every child that supports it.
func (p *SequencePlanner) Restore() error {
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
