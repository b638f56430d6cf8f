package planner

import (
	"fmt"
	"reflect"
)

// LeafPlanner iterates a fixed, ordered list of values for one setting key.
// Each successful advance writes the next value to the store and yields the
// fragment "key-value", or "basename-NNN" when a basename was supplied.
type LeafPlanner struct {
	store  Store
	key    string
	values []interface{}
	namer  namer

	cursor   int
	original interface{}
	began    bool
}

// NewLeaf creates a leaf planner for one setting. The value list must be
// non-empty; the key itself is checked against the store at Begin.
func NewLeaf(store Store, key string, values []interface{}, opts ...Option) (*LeafPlanner, error) {
	if store == nil {
		return nil, &StructuralError{Node: "leaf", Reason: "nil store"}
	}
	if len(values) == 0 {
		return nil, &StructuralError{Node: "leaf", Reason: fmt.Sprintf("no values for setting %q", key)}
	}
	o := applyOptions(opts)
	return &LeafPlanner{
		store:  store,
		key:    key,
		values: append([]interface{}(nil), values...),
		namer:  namer{basename: o.basename},
	}, nil
}

// Begin resets the cursor to the first value and records the setting's
// current value so it can be restored later.
func (p *LeafPlanner) Begin() error {
	original, err := p.store.Get(p.key)
	if err != nil {
		return fmt.Errorf("begin sweep of %q: %w", p.key, err)
	}
	p.original = original
	p.cursor = 0
	p.began = true
	p.namer.reset()
	return nil
}

// Advance writes the next value to the store and returns the run name
// fragment. An exhausted leaf performs no mutation.
func (p *LeafPlanner) Advance() (string, bool, error) {
	if p.cursor >= len(p.values) {
		return "", false, nil
	}
	value := p.values[p.cursor]
	if err := p.store.Set(p.key, value); err != nil {
		return "", false, err
	}
	p.cursor++
	return p.namer.step(fmt.Sprintf("%s-%v", p.key, value)), true, nil
}

// Length returns the number of values in the sweep.
func (p *LeafPlanner) Length() int {
	return len(p.values)
}

// Restore writes back the value observed at Begin, if it changed since.
func (p *LeafPlanner) Restore() error {
	if !p.began {
		return nil
	}
	current, err := p.store.Get(p.key)
	if err != nil {
		return err
	}
	if reflect.DeepEqual(current, p.original) {
		return nil
	}
	return p.store.Set(p.key, p.original)
}

// Key returns the setting key this leaf mutates.
func (p *LeafPlanner) Key() string {
	return p.key
}
