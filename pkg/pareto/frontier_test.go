package pareto

import (
	"fmt"
	"testing"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolFromVectors(vectors ...[]float64) *core.Pool {
	pool := core.NewPool()
	for i, v := range vectors {
		cand := core.NewCandidate("wild", fmt.Sprintf("SEQ-%d", i))
		pool.Append(cand, v)
	}
	return pool
}

func TestDominates(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		dir  Direction
		want bool
	}{
		{"strictly better everywhere", []float64{1, 1}, []float64{2, 2}, Minimize, true},
		{"weakly better, strictly in one", []float64{1, 2}, []float64{1, 3}, Minimize, true},
		{"identical vectors", []float64{1, 1}, []float64{1, 1}, Minimize, false},
		{"trade-off", []float64{1, 3}, []float64{3, 1}, Minimize, false},
		{"maximize flips orientation", []float64{2, 2}, []float64{1, 1}, Maximize, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dominates(tt.a, tt.b, tt.dir))
		})
	}
}

// Worked scenario: three mutually non-dominated points stay; a dominated
// interior point is dropped; a new non-dominated point displaces one.
func TestFrontierScenario(t *testing.T) {
	pool := poolFromVectors([]float64{1, 5}, []float64{3, 3}, []float64{5, 1})
	front := Frontier(pool, Minimize)
	assert.Equal(t, 3, front.Len(), "mutually non-dominated points all survive")

	// (4,4) is dominated by (3,3): frontier unchanged
	pool.Append(core.NewCandidate("wild", "SEQ-44"), []float64{4, 4})
	front = Frontier(pool, Minimize)
	assert.Equal(t, 3, front.Len())
	for _, e := range front.Entries() {
		assert.NotEqual(t, []float64{4, 4}, e.Objectives)
	}

	// (2,2) dominates (3,3): frontier becomes {(1,5), (2,2), (5,1)}
	pool.Append(core.NewCandidate("wild", "SEQ-22"), []float64{2, 2})
	front = Frontier(pool, Minimize)
	require.Equal(t, 3, front.Len())
	got := front.Objectives()
	assert.Contains(t, got, []float64{1, 5})
	assert.Contains(t, got, []float64{2, 2})
	assert.Contains(t, got, []float64{5, 1})
}

func TestFrontierSingletonUnchanged(t *testing.T) {
	pool := poolFromVectors([]float64{7, 7})
	front := Frontier(pool, Minimize)
	assert.Equal(t, 1, front.Len())
	assert.Equal(t, []float64{7, 7}, front.At(0).Objectives)
}

func TestFrontierRetainsTies(t *testing.T) {
	pool := core.NewPool()
	pool.Append(core.NewCandidate("wild", "AAAA"), []float64{1, 1})
	pool.Append(core.NewCandidate("wild", "CCCC"), []float64{1, 1})
	front := Frontier(pool, Minimize)
	assert.Equal(t, 2, front.Len(), "identical vectors are all retained")
}

func TestFrontierIdempotent(t *testing.T) {
	pool := poolFromVectors(
		[]float64{1, 5}, []float64{3, 3}, []float64{5, 1}, []float64{4, 4}, []float64{2, 6},
	)
	once := Frontier(pool, Minimize)
	twice := Frontier(once, Minimize)
	assert.Equal(t, once.Sequences(), twice.Sequences())
}

// Non-domination invariant: no frontier member dominates another.
func TestFrontierInternalNonDomination(t *testing.T) {
	pool := poolFromVectors(
		[]float64{1, 9}, []float64{2, 7}, []float64{3, 8}, []float64{4, 2},
		[]float64{5, 5}, []float64{6, 1}, []float64{9, 9},
	)
	front := Frontier(pool, Minimize)
	objs := front.Objectives()
	for i := range objs {
		for j := range objs {
			if i == j {
				continue
			}
			assert.False(t, Dominates(objs[i], objs[j], Minimize),
				"frontier members %v and %v must not dominate each other", objs[i], objs[j])
		}
	}
}

func TestRanks(t *testing.T) {
	objectives := [][]float64{
		{1, 5}, // front 1
		{3, 3}, // front 1
		{4, 4}, // dominated by (3,3): front 2
		{5, 5}, // dominated by (4,4): front 3
	}
	ranks := Ranks(objectives, Minimize)
	assert.Equal(t, []int{1, 1, 2, 3}, ranks)
}

func TestArchiveMergeDeduplicatesAndGrows(t *testing.T) {
	archive := NewArchive()

	first := poolFromVectors([]float64{1, 5}, []float64{5, 1})
	added := archive.MergeFrontier(first)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, archive.Len())

	// Second merge overlaps on SEQ-0; only the new sequence is added.
	second := core.NewPool()
	second.Append(core.NewCandidate("wild", "SEQ-0"), []float64{1, 5})
	second.Append(core.NewCandidate("wild", "SEQ-NEW"), []float64{2, 2})
	added = archive.MergeFrontier(second)
	assert.Equal(t, 1, added)
	assert.Equal(t, 3, archive.Len())

	// Merging the same frontier again is a no-op: history growth is monotone
	// and only by unseen sequences.
	added = archive.MergeFrontier(second)
	assert.Equal(t, 0, added)
	assert.Equal(t, 3, archive.Len())
}
