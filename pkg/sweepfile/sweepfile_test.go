package sweepfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runlab/sweeprun/pkg/planner"
	"github.com/runlab/sweeprun/pkg/settings"
)

func newStore(t *testing.T) *settings.Store {
	t.Helper()
	store, err := settings.NewStore(settings.Defaults())
	require.NoError(t, err)
	return store
}

func writeSweep(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func enumerate(t *testing.T, root planner.Planner) []string {
	t.Helper()
	require.NoError(t, root.Begin())
	var names []string
	for {
		name, ok, err := root.Advance()
		require.NoError(t, err)
		if !ok {
			return names
		}
		names = append(names, name)
	}
}

func TestLoadBuildsCombinatorTree(t *testing.T) {
	path := writeSweep(t, `
name: epoch-lr-grid
runner: mock
sweep:
  combinator:
    - setting: learning_rate
      values: [0.1, 0.01]
    - setting: nb_epoch
      values: [1, 5, 10]
`)

	file, root, err := Load(path, newStore(t))
	require.NoError(t, err)
	assert.Equal(t, "epoch-lr-grid", file.Name)
	assert.Equal(t, "mock", file.Runner)
	assert.Equal(t, 6, root.Length())

	names := enumerate(t, root)
	assert.Equal(t, []string{
		"learning_rate-0.1_nb_epoch-1",
		"learning_rate-0.01_nb_epoch-1",
		"learning_rate-0.1_nb_epoch-5",
		"learning_rate-0.01_nb_epoch-5",
		"learning_rate-0.1_nb_epoch-10",
		"learning_rate-0.01_nb_epoch-10",
	}, names)
}

func TestLoadNestedParallelWithRanges(t *testing.T) {
	path := writeSweep(t, `
sweep:
  combinator:
    - basename: points
      parallel:
        - setting: train_point_per_class
          start: 500
          end: 700
          step: 100
        - setting: test_point_per_class
          values: [200, 300, 400]
    - setting: nb_epoch
      values: [1, 5]
`)

	_, root, err := Load(path, newStore(t))
	require.NoError(t, err)
	assert.Equal(t, 6, root.Length())

	names := enumerate(t, root)
	assert.Equal(t, []string{
		"points-001_nb_epoch-1",
		"points-002_nb_epoch-1",
		"points-003_nb_epoch-1",
		"points-001_nb_epoch-5",
		"points-002_nb_epoch-5",
		"points-003_nb_epoch-5",
	}, names)
}

func TestLoadSequenceWithRestore(t *testing.T) {
	store := newStore(t)
	path := writeSweep(t, `
sweep:
  restore: true
  sequence:
    - setting: batch_size
      values: [8, 16]
    - setting: nb_epoch
      values: [2]
`)

	_, root, err := Load(path, store)
	require.NoError(t, err)

	names := enumerate(t, root)
	assert.Equal(t, []string{"batch_size-8", "batch_size-16", "nb_epoch-2"}, names)
	assert.Equal(t, settings.Defaults().BatchSize, store.Snapshot().BatchSize,
		"batch_size restored after its sweep finished")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing sweep node", "name: empty\n"},
		{"two kinds on one node", "sweep:\n  setting: nb_epoch\n  values: [1]\n  parallel:\n    - setting: seed\n      values: [1]\n"},
		{"no values and no range", "sweep:\n  setting: nb_epoch\n"},
		{"values and range together", "sweep:\n  setting: nb_epoch\n  values: [1]\n  start: 1\n  end: 3\n  step: 1\n"},
		{"zero step", "sweep:\n  setting: nb_epoch\n  start: 1\n  end: 3\n  step: 0\n"},
		{"mismatched parallel lengths", "sweep:\n  parallel:\n    - setting: nb_epoch\n      values: [1, 2, 3]\n    - setting: batch_size\n      values: [4, 8]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSweep(t, tt.content)
			_, _, err := Load(path, newStore(t))
			assert.Error(t, err)
		})
	}
}

func TestRangeExpansion(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step float64
		want             []interface{}
	}{
		{"inclusive integer range", 500, 700, 100, []interface{}{500, 600, 700}},
		{"end not on a step", 1, 4, 2, []interface{}{1, 3}},
		{"single value", 5, 5, 1, []interface{}{5}},
		{"float range", 0.1, 0.3, 0.1, []interface{}{0.1, 0.2, 0.30000000000000004}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{Setting: "x", Start: &tt.start, End: &tt.end, Step: &tt.step}
			got, err := n.settingValues()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
