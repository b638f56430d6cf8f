package planner

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testStore is an in-memory Store recording every committed write in order.
type testStore struct {
	values  map[string]interface{}
	writes  []string
	failKey string
}

func newTestStore() *testStore {
	return &testStore{values: map[string]interface{}{}}
}

func (s *testStore) Get(key string) (interface{}, error) {
	return s.values[key], nil
}

func (s *testStore) Set(key string, value interface{}) error {
	if key == s.failKey {
		return fmt.Errorf("validation rejected %s=%v", key, value)
	}
	s.values[key] = value
	s.writes = append(s.writes, fmt.Sprintf("%s=%v", key, value))
	return nil
}

// collect drains a planner and returns every produced name.
func collect(t *testing.T, p Planner) []string {
	t.Helper()
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	var names []string
	for {
		name, ok, err := p.Advance()
		if err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		if !ok {
			return names
		}
		names = append(names, name)
	}
}

func mustLeaf(t *testing.T, store Store, key string, values []interface{}, opts ...Option) *LeafPlanner {
	t.Helper()
	leaf, err := NewLeaf(store, key, values, opts...)
	if err != nil {
		t.Fatalf("NewLeaf(%q) error = %v", key, err)
	}
	return leaf
}

func TestEndToEndCombination(t *testing.T) {
	store := newTestStore()
	root, err := NewCombinator([]Planner{
		mustLeaf(t, store, "lr", []interface{}{0.1, 0.01}),
		mustLeaf(t, store, "epochs", []interface{}{1, 5, 10}),
	})
	if err != nil {
		t.Fatalf("NewCombinator() error = %v", err)
	}

	if got := root.Length(); got != 6 {
		t.Fatalf("Length() = %d, want 6", got)
	}

	want := []string{
		"lr-0.1_epochs-1",
		"lr-0.01_epochs-1",
		"lr-0.1_epochs-5",
		"lr-0.01_epochs-5",
		"lr-0.1_epochs-10",
		"lr-0.01_epochs-10",
	}
	got := collect(t, root)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("name sequence mismatch (-want +got):\n%s", diff)
	}

	// The store ends on the last combination.
	if store.values["lr"] != 0.01 || store.values["epochs"] != 10 {
		t.Errorf("final store state = %v, want lr=0.01 epochs=10", store.values)
	}
}

func TestRestartReproducesNames(t *testing.T) {
	store := newTestStore()
	tests := []struct {
		name string
		make func(t *testing.T) Planner
	}{
		{
			name: "leaf",
			make: func(t *testing.T) Planner {
				return mustLeaf(t, store, "batch_size", []interface{}{2, 4, 8})
			},
		},
		{
			name: "leaf with basename",
			make: func(t *testing.T) Planner {
				return mustLeaf(t, store, "batch_size", []interface{}{2, 4, 8}, WithBasename("bs"))
			},
		},
		{
			name: "combinator over parallel",
			make: func(t *testing.T) Planner {
				par, err := NewParallel([]Planner{
					mustLeaf(t, store, "nb_train", []interface{}{500, 600, 700}),
					mustLeaf(t, store, "nb_test", []interface{}{200, 300, 400}),
				})
				if err != nil {
					t.Fatal(err)
				}
				root, err := NewCombinator([]Planner{par, mustLeaf(t, store, "nb_epoch", []interface{}{1, 5})})
				if err != nil {
					t.Fatal(err)
				}
				return root
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.make(t)
			first := collect(t, p)
			second := collect(t, p)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("second enumeration differs from first (-first +second):\n%s", diff)
			}
			if len(first) != p.Length() {
				t.Errorf("enumerated %d names, Length() = %d", len(first), p.Length())
			}
		})
	}
}

func TestAdvanceAfterExhaustionStaysExhausted(t *testing.T) {
	store := newTestStore()
	leaf := mustLeaf(t, store, "seed", []interface{}{1})
	collect(t, leaf)

	for i := 0; i < 3; i++ {
		name, ok, err := leaf.Advance()
		if err != nil {
			t.Fatalf("Advance() after exhaustion error = %v", err)
		}
		if ok || name != "" {
			t.Fatalf("Advance() after exhaustion = (%q, %v), want empty and false", name, ok)
		}
	}
	if len(store.writes) != 1 {
		t.Errorf("exhausted advances mutated the store: %v", store.writes)
	}
}
