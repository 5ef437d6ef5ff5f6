// Package optimizers implements the sequential multi-objective evolutionary
// round loop: active-set maintenance, weighted resampling, inner-optimizer
// dispatch through a task strategy, the proposal filter pipeline, and
// Pareto frontier/history archival with per-round convergence metrics.
package optimizers

import (
	"context"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/errors"
	"github.com/XiaoConstantine/lambo-go/pkg/logging"
	"github.com/XiaoConstantine/lambo-go/pkg/metrics"
	"github.com/XiaoConstantine/lambo-go/pkg/pareto"
	"github.com/XiaoConstantine/lambo-go/pkg/resample"
	"github.com/XiaoConstantine/lambo-go/pkg/tracking"
)

// SequentialConfig contains the outer-loop parameters.
type SequentialConfig struct {
	// NumRounds is the fixed number of rounds; there is no early stopping.
	NumRounds int
	// NumGenerations bounds each inner optimization call.
	NumGenerations int
	// ConcentrateEvery contracts the active set to its frontier every N
	// rounds; zero disables contraction.
	ConcentrateEvery int
	// ResamplingWeight is the rank exponent k for all weighted draws.
	// Zero disables weighting (uniform distributions everywhere).
	ResamplingWeight float64
	// SimplexBins sets the R2 weight-simplex resolution per dimension.
	SimplexBins int
	// Seed initializes all orchestration randomness once.
	Seed int64
	// LogPrefix namespaces emitted records.
	LogPrefix string
}

// DefaultSequentialConfig returns the defaults used by the CLI.
func DefaultSequentialConfig() SequentialConfig {
	return SequentialConfig{
		NumRounds:        8,
		NumGenerations:   10,
		ConcentrateEvery: 1,
		ResamplingWeight: 1,
		SimplexBins:      11,
		LogPrefix:        "optimize",
	}
}

// SequentialOptimizer orchestrates the full multi-round procedure. It owns
// the candidate pool, active set, Pareto frontier, and frontier history for
// the duration of one run; nothing is shared across goroutines.
type SequentialOptimizer struct {
	config    SequentialConfig
	task      core.Task
	minimizer core.Minimizer
	strategy  TaskStrategy
	sink      tracking.Sink
	resampler *resample.Resampler
	logger    *logging.Logger
}

// NewSequentialOptimizer wires the collaborators together.
func NewSequentialOptimizer(config SequentialConfig, task core.Task, minimizer core.Minimizer,
	strategy TaskStrategy, sink tracking.Sink) (*SequentialOptimizer, error) {
	if config.NumRounds <= 0 {
		return nil, errors.New(errors.ValidationFailed, "NumRounds must be positive")
	}
	if config.NumGenerations <= 0 {
		return nil, errors.New(errors.ValidationFailed, "NumGenerations must be positive")
	}
	if task == nil || minimizer == nil || strategy == nil || sink == nil {
		return nil, errors.New(errors.InvalidInput, "task, minimizer, strategy and sink are required")
	}

	return &SequentialOptimizer{
		config:    config,
		task:      task,
		minimizer: minimizer,
		strategy:  strategy,
		sink:      sink,
		resampler: resample.New(config.Seed),
		logger:    logging.GetLogger(),
	}, nil
}

// Optimize runs the full multi-round procedure over an initial labeled pool
// and returns the final round's metrics record. Oracle and inner-optimizer
// failures are fatal: no partial-round state is safe to resume from.
func (o *SequentialOptimizer) Optimize(ctx context.Context, labeled *core.Pool) (*tracking.RoundRecord, error) {
	state := core.NewRoundState(o.config.LogPrefix)

	// Filter the incoming pool to feasible candidates.
	pool, err := o.filterFeasible(ctx, labeled.Entries())
	if err != nil {
		return nil, err
	}
	if pool.Len() == 0 {
		return nil, errors.New(errors.InvalidInput, "no feasible candidates in the initial pool")
	}

	observed := pool.Clone()
	active := NewActivePool(pool, ActivePoolConfig{
		BatchSize:        o.task.BatchSize(),
		ConcentrateEvery: o.config.ConcentrateEvery,
		ResamplingWeight: o.config.ResamplingWeight,
	}, o.resampler)

	frontier := pareto.Frontier(pool, pareto.Minimize)
	history := pareto.NewArchive()
	history.MergeFrontier(frontier)

	calc := metrics.NewCalculator(o.task.ObjectiveDim(), o.config.SimplexBins)

	// Round-zero snapshot over the initial frontier.
	roundCtx := logging.WithRoundIdx(ctx, 0)
	if err := o.emitCandidates(frontier.Entries(), state); err != nil {
		return nil, err
	}
	record, err := o.emitRound(roundCtx, calc, frontier, state)
	if err != nil {
		return nil, err
	}

	for roundIdx := 1; roundIdx <= o.config.NumRounds; roundIdx++ {
		state.RoundIdx = roundIdx
		roundCtx := logging.WithRoundIdx(ctx, roundIdx)
		if err := errors.CheckContext(roundCtx, "round loop"); err != nil {
			return nil, err
		}

		// Prepare the active set for this round.
		if err := active.Prepare(roundCtx, roundIdx, history, pool); err != nil {
			return nil, err
		}

		activeWeights := o.resampler.Weights(active.Pool().Objectives(), o.config.ResamplingWeight)

		// One inner optimization call, treated as opaque and blocking.
		problem, err := o.strategy.BuildProblem(roundCtx, active.Pool(), activeWeights, observed, state)
		if err != nil {
			return nil, errors.Wrap(err, errors.OptimizationFailed, "failed to build inner problem")
		}
		o.logger.Info(roundCtx, "optimizing candidates: active=%d problem=%s", active.Pool().Len(), problem.Name())
		result, err := o.minimizer.Minimize(roundCtx, problem, core.Termination{MaxGenerations: o.config.NumGenerations})
		if err != nil {
			return nil, errors.Wrap(err, errors.OptimizationFailed, "inner optimization failed")
		}

		proposals := o.strategy.ParseResult(result)
		state.Evaluations += proposals.Evaluations

		// Filter pipeline: feasibility, in-batch dedup, novelty.
		survivors, err := o.filterProposals(roundCtx, proposals.Entries, observed)
		if err != nil {
			return nil, err
		}
		if len(survivors) == 0 {
			o.logger.Info(roundCtx, "no new candidates")
			record, err = o.emitRound(roundCtx, calc, frontier, state)
			if err != nil {
				return nil, err
			}
			continue
		}

		// Accepted proposals join the full pool, the observed set, and the
		// active set (so they remain eligible for further mutation).
		for _, e := range survivors {
			pool.Append(e.Candidate, e.Objectives)
			observed.Append(e.Candidate, e.Objectives)
			active.Add(e.Candidate, e.Objectives)
		}

		// Recompute the global frontier over the previous frontier plus the
		// new proposals, then archive any newly non-dominated points.
		union := frontier.Clone()
		for _, e := range survivors {
			union.Append(e.Candidate, e.Objectives)
		}
		frontier = pareto.Frontier(union, pareto.Minimize)
		history.MergeFrontier(frontier)

		if err := o.emitCandidates(survivors, state); err != nil {
			return nil, err
		}
		record, err = o.emitRound(roundCtx, calc, frontier, state)
		if err != nil {
			return nil, err
		}
		o.logger.Info(roundCtx, "round complete: accepted=%d pool=%d frontier=%d history=%d",
			len(survivors), pool.Len(), frontier.Len(), history.Len())
	}

	return record, nil
}

// filterFeasible keeps entries whose candidates pass the oracle feasibility
// check.
func (o *SequentialOptimizer) filterFeasible(ctx context.Context, entries []core.Entry) (*core.Pool, error) {
	candidates := make([]*core.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = e.Candidate
	}

	mask, err := o.task.IsFeasible(ctx, candidates)
	if err != nil {
		return nil, errors.Wrap(err, errors.OracleFailed, "feasibility check failed")
	}

	out := core.NewPool()
	for i, ok := range mask {
		if ok {
			out.Append(entries[i].Candidate, entries[i].Objectives)
		}
	}
	return out, nil
}

// filterProposals applies the three-stage pipeline in order. Each stage may
// empty the set; that is a normal outcome, not an error.
func (o *SequentialOptimizer) filterProposals(ctx context.Context, proposals []core.Entry, observed *core.Pool) ([]core.Entry, error) {
	// 1. Feasibility via the oracle.
	candidates := make([]*core.Candidate, len(proposals))
	for i, e := range proposals {
		candidates[i] = e.Candidate
	}
	mask, err := o.task.IsFeasible(ctx, candidates)
	if err != nil {
		return nil, errors.Wrap(err, errors.OracleFailed, "proposal feasibility check failed")
	}

	feasible := make([]core.Entry, 0, len(proposals))
	for i, ok := range mask {
		if ok {
			feasible = append(feasible, proposals[i])
		}
	}

	// 2. Exact-duplicate sequences within the batch: first occurrence wins.
	seen := make(map[string]bool, len(feasible))
	unique := make([]core.Entry, 0, len(feasible))
	for _, e := range feasible {
		if seen[e.Candidate.Sequence] {
			continue
		}
		seen[e.Candidate.Sequence] = true
		unique = append(unique, e)
	}

	// 3. Novelty: drop sequences already observed in any earlier round.
	novel := make([]core.Entry, 0, len(unique))
	for _, e := range unique {
		if observed.Contains(e.Candidate.Sequence) {
			continue
		}
		novel = append(novel, e)
	}

	return novel, nil
}

func (o *SequentialOptimizer) emitCandidates(entries []core.Entry, state *core.RoundState) error {
	for _, e := range entries {
		record := tracking.CandidateRecord{
			LogPrefix:   state.LogPrefix,
			RoundIdx:    state.RoundIdx,
			CandidateID: e.Candidate.ID,
			AncestorID:  e.Candidate.Ancestor,
			Sequence:    e.Candidate.Sequence,
			Objectives:  e.Objectives,
		}
		if err := o.sink.LogCandidate(record); err != nil {
			return errors.Wrap(err, errors.SinkFailed, "failed to emit candidate record")
		}
	}
	return nil
}

func (o *SequentialOptimizer) emitRound(ctx context.Context, calc *metrics.Calculator,
	frontier *core.Pool, state *core.RoundState) (*tracking.RoundRecord, error) {
	report := calc.Compute(frontier.Objectives())

	record := &tracking.RoundRecord{
		LogPrefix:           state.LogPrefix,
		RoundIdx:            state.RoundIdx,
		Hypervolume:         report.Hypervolume,
		R2:                  report.R2,
		HSRI:                report.HSRI,
		HypervolumeRelative: report.HypervolumeRelative,
		NumEvaluations:      state.Evaluations,
		ElapsedSeconds:      state.Elapsed(),
	}
	if err := o.sink.LogRound(*record); err != nil {
		return nil, errors.Wrap(err, errors.SinkFailed, "failed to emit round record")
	}

	o.logger.Debug(ctx, "metrics: hv=%.6f hv_rel=%.4f r2=%.6f hsri=%.6f evals=%d",
		record.Hypervolume, record.HypervolumeRelative, record.R2, record.HSRI, record.NumEvaluations)
	return record, nil
}
