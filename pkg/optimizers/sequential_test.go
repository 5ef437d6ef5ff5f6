package optimizers

import (
	"context"
	"sync"
	"testing"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/errors"
	"github.com/XiaoConstantine/lambo-go/pkg/moo"
	"github.com/XiaoConstantine/lambo-go/pkg/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTask scores sequences by mismatch against two conflicting motifs,
// normalized per position. Feasibility requires the exact motif length and
// the DNA alphabet.
type stubTask struct {
	motifA string
	motifB string
}

func newStubTask() *stubTask {
	return &stubTask{motifA: "AAAAAAAA", motifB: "CCCCCCCC"}
}

func (t *stubTask) ObjectiveDim() int { return 2 }
func (t *stubTask) BatchSize() int    { return 5 }

func (t *stubTask) IsFeasible(_ context.Context, candidates []*core.Candidate) ([]bool, error) {
	mask := make([]bool, len(candidates))
	for i, c := range candidates {
		mask[i] = len(c.Sequence) == len(t.motifA) && validDNA(c.Sequence)
	}
	return mask, nil
}

func (t *stubTask) Evaluate(_ context.Context, candidates []*core.Candidate) ([][]float64, error) {
	out := make([][]float64, len(candidates))
	for i, c := range candidates {
		out[i] = []float64{mismatch(c.Sequence, t.motifA), mismatch(c.Sequence, t.motifB)}
	}
	return out, nil
}

func mismatch(seq, motif string) float64 {
	n := 0
	for i := 0; i < len(motif) && i < len(seq); i++ {
		if seq[i] != motif[i] {
			n++
		}
	}
	return float64(n) / float64(len(motif))
}

func validDNA(seq string) bool {
	for _, r := range seq {
		switch r {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

// threadSafeSink records everything emitted during a run.
type threadSafeSink struct {
	mu         sync.Mutex
	candidates []tracking.CandidateRecord
	rounds     []tracking.RoundRecord
}

func (s *threadSafeSink) LogCandidate(r tracking.CandidateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append(s.candidates, r)
	return nil
}

func (s *threadSafeSink) LogRound(r tracking.RoundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, r)
	return nil
}

func (s *threadSafeSink) Close() error { return nil }

func seedPool(t *testing.T) *core.Pool {
	t.Helper()
	pool := core.NewPool()
	seqs := []string{"AACCGGTT", "GGTTAACC", "ACACACAC", "TGTGTGTG", "AAAACCCC", "CCCCAAAA"}
	task := newStubTask()
	for _, seq := range seqs {
		cand := core.NewCandidate("wild", seq)
		objs, err := task.Evaluate(context.Background(), []*core.Candidate{cand})
		require.NoError(t, err)
		require.True(t, pool.Append(cand, objs[0]))
	}
	return pool
}

func newTestOptimizer(t *testing.T, config SequentialConfig, sink tracking.Sink) (*SequentialOptimizer, *stubTask) {
	t.Helper()
	task := newStubTask()
	minimizer := moo.NewNSGAII(moo.Config{
		PopulationSize: 8,
		CrossoverRate:  0.8,
		MutationRate:   0.2,
		Alphabet:       []rune("ACGT"),
		Seed:           42,
	}, nil)
	opt, err := NewSequentialOptimizer(config, task, minimizer, NewModelFreeStrategy(task), sink)
	require.NoError(t, err)
	return opt, task
}

func TestSequentialOptimizerRunsAllRounds(t *testing.T) {
	sink := &threadSafeSink{}
	config := SequentialConfig{
		NumRounds:        4,
		NumGenerations:   3,
		ConcentrateEvery: 2,
		ResamplingWeight: 1,
		SimplexBins:      11,
		Seed:             42,
		LogPrefix:        "test-run",
	}
	opt, _ := newTestOptimizer(t, config, sink)

	record, err := opt.Optimize(context.Background(), seedPool(t))
	require.NoError(t, err)
	require.NotNil(t, record)

	// One round record per round plus the round-zero snapshot.
	require.Len(t, sink.rounds, config.NumRounds+1)
	assert.Equal(t, 0, sink.rounds[0].RoundIdx)
	assert.Equal(t, config.NumRounds, sink.rounds[len(sink.rounds)-1].RoundIdx)
	assert.Equal(t, *record, sink.rounds[len(sink.rounds)-1])

	// Evaluation counts never decrease across rounds.
	for i := 1; i < len(sink.rounds); i++ {
		assert.GreaterOrEqual(t, sink.rounds[i].NumEvaluations, sink.rounds[i-1].NumEvaluations)
	}
	assert.Equal(t, "test-run", record.LogPrefix)
}

func TestSequentialOptimizerCandidateRecordsAreUniqueAndFeasible(t *testing.T) {
	sink := &threadSafeSink{}
	config := DefaultSequentialConfig()
	config.NumRounds = 3
	config.NumGenerations = 3
	config.Seed = 7
	opt, task := newTestOptimizer(t, config, sink)

	_, err := opt.Optimize(context.Background(), seedPool(t))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, rec := range sink.candidates {
		if rec.RoundIdx == 0 {
			continue // round-zero snapshot repeats seed-pool frontier entries
		}
		assert.False(t, seen[rec.Sequence], "sequence %s emitted twice", rec.Sequence)
		seen[rec.Sequence] = true

		mask, ferr := task.IsFeasible(context.Background(), []*core.Candidate{{Sequence: rec.Sequence}})
		require.NoError(t, ferr)
		assert.True(t, mask[0], "infeasible sequence %s survived the filter", rec.Sequence)
		assert.Len(t, rec.Objectives, task.ObjectiveDim())
	}
}

func TestSequentialOptimizerRelativeHypervolumeBaseline(t *testing.T) {
	sink := &threadSafeSink{}
	config := DefaultSequentialConfig()
	config.NumRounds = 3
	config.NumGenerations = 3
	config.Seed = 99
	opt, _ := newTestOptimizer(t, config, sink)

	_, err := opt.Optimize(context.Background(), seedPool(t))
	require.NoError(t, err)

	// Round zero defines the baseline, so its relative value is exactly one,
	// and the frontier-union recompute keeps later rounds at or above it.
	assert.InDelta(t, 1.0, sink.rounds[0].HypervolumeRelative, 1e-12)
	for _, r := range sink.rounds[1:] {
		assert.GreaterOrEqual(t, r.HypervolumeRelative, 1.0-1e-12)
	}
}

func TestSequentialOptimizerRejectsInfeasiblePool(t *testing.T) {
	opt, _ := newTestOptimizer(t, DefaultSequentialConfig(), tracking.NopSink{})

	pool := core.NewPool()
	pool.Append(core.NewCandidate("wild", "TOO-SHORT"), []float64{0.5, 0.5})

	_, err := opt.Optimize(context.Background(), pool)
	require.Error(t, err)
	var coded *errors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, errors.InvalidInput, coded.Code())
}

func TestSequentialOptimizerHonorsCancellation(t *testing.T) {
	opt, _ := newTestOptimizer(t, DefaultSequentialConfig(), tracking.NopSink{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := opt.Optimize(ctx, seedPool(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSequentialOptimizerValidatesConfig(t *testing.T) {
	task := newStubTask()
	minimizer := moo.NewNSGAII(moo.DefaultConfig(), nil)
	strategy := NewModelFreeStrategy(task)

	_, err := NewSequentialOptimizer(SequentialConfig{NumRounds: 0, NumGenerations: 1},
		task, minimizer, strategy, tracking.NopSink{})
	assert.Error(t, err)

	_, err = NewSequentialOptimizer(SequentialConfig{NumRounds: 1, NumGenerations: 0},
		task, minimizer, strategy, tracking.NopSink{})
	assert.Error(t, err)

	_, err = NewSequentialOptimizer(SequentialConfig{NumRounds: 1, NumGenerations: 1},
		task, minimizer, strategy, nil)
	assert.Error(t, err)
}

func TestFilterProposalsPipeline(t *testing.T) {
	task := newStubTask()
	opt, err := NewSequentialOptimizer(SequentialConfig{NumRounds: 1, NumGenerations: 1},
		task, moo.NewNSGAII(moo.DefaultConfig(), nil), NewModelFreeStrategy(task), tracking.NopSink{})
	require.NoError(t, err)

	observed := core.NewPool()
	observed.Append(core.NewCandidate("wild", "AACCGGTT"), []float64{0.5, 0.5})

	entry := func(seq string, objs ...float64) core.Entry {
		return core.Entry{Candidate: core.NewCandidate("wild", seq), Objectives: objs}
	}
	proposals := []core.Entry{
		entry("BAD!", 0.1, 0.1),          // infeasible, wrong length and alphabet
		entry("ACGTACGT", 0.2, 0.8),      // kept
		entry("ACGTACGT", 0.3, 0.7),      // in-batch duplicate, first wins
		entry("AACCGGTT", 0.5, 0.5),      // already observed
		entry("TTTTAAAA", 0.6, 0.4),      // kept
	}

	survivors, err := opt.filterProposals(context.Background(), proposals, observed)
	require.NoError(t, err)
	require.Len(t, survivors, 2)
	assert.Equal(t, "ACGTACGT", survivors[0].Candidate.Sequence)
	assert.Equal(t, []float64{0.2, 0.8}, survivors[0].Objectives)
	assert.Equal(t, "TTTTAAAA", survivors[1].Candidate.Sequence)

	// Filtering is idempotent: a second pass over its own output is a no-op.
	again, err := opt.filterProposals(context.Background(), survivors, observed)
	require.NoError(t, err)
	assert.Equal(t, survivors, again)
}

func TestModelGuidedStrategyRefitsSampler(t *testing.T) {
	task := newStubTask()
	minimizer := moo.NewNSGAII(moo.Config{
		PopulationSize: 8,
		CrossoverRate:  0.8,
		MutationRate:   0.2,
		Alphabet:       []rune("ACGT"),
		Seed:           13,
	}, nil)
	strategy := NewModelGuidedStrategy(task, minimizer)

	sink := &threadSafeSink{}
	config := DefaultSequentialConfig()
	config.NumRounds = 2
	config.NumGenerations = 3
	opt, err := NewSequentialOptimizer(config, task, minimizer, strategy, sink)
	require.NoError(t, err)

	record, err := opt.Optimize(context.Background(), seedPool(t))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Len(t, sink.rounds, 3)
}
