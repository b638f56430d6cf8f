package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinatorFastestVaryingFirst(t *testing.T) {
	store := newTestStore()
	root, err := NewCombinator([]Planner{
		mustLeaf(t, store, "a", []interface{}{1, 2}),
		mustLeaf(t, store, "b", []interface{}{"x", "y"}),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, root.Length(), "length is the product of children lengths")

	names := collect(t, root)
	assert.Equal(t, []string{"a-1_b-x", "a-2_b-x", "a-1_b-y", "a-2_b-y"}, names,
		"child 0 varies fastest")
}

func TestCombinatorCachesFragmentsOfIdleChildren(t *testing.T) {
	store := newTestStore()
	root, err := NewCombinator([]Planner{
		mustLeaf(t, store, "a", []interface{}{1, 2}, WithBasename("fast")),
		mustLeaf(t, store, "b", []interface{}{"x", "y"}),
	})
	require.NoError(t, err)

	names := collect(t, root)
	// The idle child's fragment is reused verbatim, not recomputed. A carry
	// restarts the fast child's enumeration, counter included; the combined
	// names stay unique because the slow digit differs.
	assert.Equal(t, []string{"fast-001_b-x", "fast-002_b-x", "fast-001_b-y", "fast-002_b-y"}, names)
}

func TestCombinatorThreeChildrenOdometer(t *testing.T) {
	store := newTestStore()
	root, err := NewCombinator([]Planner{
		mustLeaf(t, store, "a", []interface{}{1, 2}),
		mustLeaf(t, store, "b", []interface{}{1, 2}),
		mustLeaf(t, store, "c", []interface{}{1, 2}),
	})
	require.NoError(t, err)

	names := collect(t, root)
	require.Len(t, names, 8)
	assert.Equal(t, "a-1_b-1_c-1", names[0])
	assert.Equal(t, "a-2_b-1_c-1", names[1])
	assert.Equal(t, "a-1_b-2_c-1", names[2])
	assert.Equal(t, "a-2_b-2_c-1", names[3])
	assert.Equal(t, "a-1_b-1_c-2", names[4])
	assert.Equal(t, "a-2_b-2_c-2", names[7])
}

func TestCombinatorBasename(t *testing.T) {
	store := newTestStore()
	root, err := NewCombinator([]Planner{
		mustLeaf(t, store, "a", []interface{}{1, 2}),
		mustLeaf(t, store, "b", []interface{}{1, 2}),
	}, WithBasename("grid"))
	require.NoError(t, err)

	assert.Equal(t, []string{"grid-001", "grid-002", "grid-003", "grid-004"}, collect(t, root))
}

func TestCombinatorRejectsEmptyChildList(t *testing.T) {
	_, err := NewCombinator(nil)
	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
}

func TestCombinatorRejectsZeroLengthChild(t *testing.T) {
	store := newTestStore()
	leaf := mustLeaf(t, store, "a", []interface{}{1})

	_, err := NewCombinator([]Planner{leaf, zeroLength{}})
	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Contains(t, structural.Reason, "length 0")
	assert.Empty(t, store.writes, "a rejected plan never yields a run")
}

func TestCombinatorPropagatesStoreErrors(t *testing.T) {
	store := newTestStore()
	store.failKey = "b"
	root, err := NewCombinator([]Planner{
		mustLeaf(t, store, "a", []interface{}{1, 2}),
		mustLeaf(t, store, "b", []interface{}{1, 2}),
	})
	require.NoError(t, err)
	require.NoError(t, root.Begin())

	_, ok, err := root.Advance()
	assert.False(t, ok)
	assert.Error(t, err, "a rejected value aborts the advance")
}

// zeroLength is a degenerate planner reporting no steps.
type zeroLength struct{}

func (zeroLength) Begin() error                   { return nil }
func (zeroLength) Advance() (string, bool, error) { return "", false, nil }
func (zeroLength) Length() int                    { return 0 }
