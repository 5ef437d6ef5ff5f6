package optimizers

import (
	"context"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/logging"
	"github.com/XiaoConstantine/lambo-go/pkg/pareto"
	"github.com/XiaoConstantine/lambo-go/pkg/resample"
)

// ActivePoolConfig controls the per-round active-set state machine.
type ActivePoolConfig struct {
	// BatchSize is the target active-set size.
	BatchSize int
	// ConcentrateEvery contracts the active set to its Pareto frontier every
	// N rounds. Zero disables contraction.
	ConcentrateEvery int
	// ResamplingWeight is the rank exponent k for augmentation draws.
	// Zero yields uniform draws.
	ResamplingWeight float64
}

// ActivePool maintains the mutable working set handed to the inner optimizer
// each round: periodic contraction to the current frontier, backtrack
// augmentation from the frontier history, and random augmentation from the
// full pool. It never fabricates candidates; an undersized active set is
// accepted when the history and pool cannot supply enough unique sequences.
type ActivePool struct {
	config    ActivePoolConfig
	active    *core.Pool
	resampler *resample.Resampler
	logger    *logging.Logger
}

// NewActivePool creates a manager seeded with the given working set.
func NewActivePool(initial *core.Pool, config ActivePoolConfig, resampler *resample.Resampler) *ActivePool {
	return &ActivePool{
		config:    config,
		active:    initial.Clone(),
		resampler: resampler,
		logger:    logging.GetLogger(),
	}
}

// Pool returns the current active set.
func (a *ActivePool) Pool() *core.Pool {
	return a.active
}

// Add appends a freshly accepted candidate so it stays eligible for further
// mutation in later rounds.
func (a *ActivePool) Add(cand *core.Candidate, objectives []float64) {
	a.active.Append(cand, objectives)
}

// Prepare runs the per-round state machine:
// contraction -> backtrack augmentation -> random augmentation.
func (a *ActivePool) Prepare(ctx context.Context, roundIdx int, history *pareto.Archive, fullPool *core.Pool) error {
	// Contract active pool to its current Pareto frontier.
	if a.config.ConcentrateEvery > 0 && roundIdx%a.config.ConcentrateEvery == 0 {
		a.active = pareto.Frontier(a.active, pareto.Minimize)
		a.logger.Debug(ctx, "active set contracted to %d pareto points", a.active.Len())
	}

	// Augment with old pareto points from the history.
	if a.active.Len() < a.config.BatchSize {
		added, err := a.augmentFrom(history.History())
		if err != nil {
			return err
		}
		if added > 0 {
			a.logger.Debug(ctx, "active set augmented with %d backtrack points", added)
		}
	}

	// Augment with random points from the full pool.
	if a.active.Len() < a.config.BatchSize {
		added, err := a.augmentFrom(fullPool)
		if err != nil {
			return err
		}
		if added > 0 {
			a.logger.Debug(ctx, "active set augmented with %d random points", added)
		}
	}

	return nil
}

// augmentFrom draws weighted samples from the source pool and appends those
// whose sequences are not already active, up to the batch-size shortfall.
func (a *ActivePool) augmentFrom(source *core.Pool) (int, error) {
	if source.Len() == 0 {
		return 0, nil
	}

	numSamples := min(a.config.BatchSize, source.Len())
	need := min(numSamples, a.config.BatchSize-a.active.Len())

	weights := a.resampler.Weights(source.Objectives(), a.config.ResamplingWeight)
	indices, err := a.resampler.SampleWithoutReplacement(numSamples, weights)
	if err != nil {
		return 0, err
	}
	sampled, err := source.Select(indices)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, entry := range sampled.Entries() {
		if added >= need {
			break
		}
		if a.active.Contains(entry.Candidate.Sequence) {
			continue
		}
		a.active.Append(entry.Candidate, entry.Objectives)
		added++
	}
	return added, nil
}
