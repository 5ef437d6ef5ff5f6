package tasks

import (
	"context"
	"testing"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyntheticTaskValidation(t *testing.T) {
	_, err := NewSyntheticTask(SyntheticConfig{Alphabet: []rune("ACGT"), MinLen: 1, MaxLen: 8})
	assert.Error(t, err, "no motifs")

	_, err = NewSyntheticTask(SyntheticConfig{Motifs: []string{"AAAA"}, MinLen: 1, MaxLen: 8})
	assert.Error(t, err, "no alphabet")

	_, err = NewSyntheticTask(SyntheticConfig{
		Motifs: []string{"AAAA"}, Alphabet: []rune("ACGT"), MinLen: 8, MaxLen: 4,
	})
	assert.Error(t, err, "inverted length bounds")

	_, err = NewSyntheticTask(SyntheticConfig{
		Motifs: []string{"AAXA"}, Alphabet: []rune("ACGT"), MinLen: 4, MaxLen: 4,
	})
	assert.Error(t, err, "motif outside alphabet")
}

func TestSyntheticTaskFeasibility(t *testing.T) {
	task, err := NewSyntheticTask(DefaultSyntheticConfig())
	require.NoError(t, err)

	candidates := []*core.Candidate{
		core.NewCandidate("w", "ACGTACGT"), // feasible
		core.NewCandidate("w", "ACGT"),     // too short
		core.NewCandidate("w", "ACGTACGX"), // bad residue
	}
	mask, err := task.IsFeasible(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, mask)
}

func TestSyntheticTaskEvaluate(t *testing.T) {
	task, err := NewSyntheticTask(DefaultSyntheticConfig())
	require.NoError(t, err)
	require.Equal(t, 2, task.ObjectiveDim())

	objs, err := task.Evaluate(context.Background(), []*core.Candidate{
		core.NewCandidate("w", "AAAAAAAA"),
		core.NewCandidate("w", "CCCCCCCC"),
		core.NewCandidate("w", "AAAACCCC"),
	})
	require.NoError(t, err)

	// Perfect match on one motif is a full mismatch on the other.
	assert.Equal(t, []float64{0, 1}, objs[0])
	assert.Equal(t, []float64{1, 0}, objs[1])
	assert.Equal(t, []float64{0.5, 0.5}, objs[2])
}

func TestSyntheticTaskSeedsSkipsInfeasibleAndDuplicates(t *testing.T) {
	task, err := NewSyntheticTask(DefaultSyntheticConfig())
	require.NoError(t, err)

	pool, err := task.Seeds(context.Background(), "wild", []string{
		"AACCGGTT",
		"AACCGGTT", // duplicate
		"short",    // infeasible
		"GGTTAACC",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Len())
	assert.True(t, pool.Contains("AACCGGTT"))
	assert.True(t, pool.Contains("GGTTAACC"))
}

func TestSyntheticTaskHonorsCancellation(t *testing.T) {
	task, err := NewSyntheticTask(DefaultSyntheticConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = task.Evaluate(ctx, []*core.Candidate{core.NewCandidate("w", "AACCGGTT")})
	assert.ErrorIs(t, err, context.Canceled)
}
