package optimizers

import (
	"context"
	"fmt"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/moo"
)

// Proposals is the parsed output of one inner optimization call, before the
// outer loop's filter pipeline has run.
type Proposals struct {
	Entries     []core.Entry
	Evaluations int
}

// TaskStrategy builds the problem object consumed by the inner optimizer for
// one round and parses its result back into proposals. Concrete strategies
// are selected by configuration, never by subclassing control flow.
type TaskStrategy interface {
	BuildProblem(ctx context.Context, active *core.Pool, weights []float64,
		observed *core.Pool, state *core.RoundState) (core.Problem, error)
	ParseResult(result *core.Result) Proposals
}

// innerProblem adapts the active pool and task oracle to the core.Problem
// contract.
type innerProblem struct {
	name    string
	seeds   []*core.Candidate
	weights []float64
	task    core.Task
}

func (p *innerProblem) Name() string { return p.name }

func (p *innerProblem) Seeds() ([]*core.Candidate, []float64) {
	return p.seeds, p.weights
}

func (p *innerProblem) Evaluate(ctx context.Context, candidates []*core.Candidate) ([][]float64, error) {
	return p.task.Evaluate(ctx, candidates)
}

// ModelFreeStrategy runs the inner optimizer directly against the task
// oracle with uniform residue sampling.
type ModelFreeStrategy struct {
	task core.Task
}

// NewModelFreeStrategy creates the model-free strategy.
func NewModelFreeStrategy(task core.Task) *ModelFreeStrategy {
	return &ModelFreeStrategy{task: task}
}

func (s *ModelFreeStrategy) BuildProblem(_ context.Context, active *core.Pool, weights []float64,
	_ *core.Pool, state *core.RoundState) (core.Problem, error) {
	return &innerProblem{
		name:    fmt.Sprintf("%s/round-%d", state.LogPrefix, state.RoundIdx),
		seeds:   active.Candidates(),
		weights: weights,
		task:    s.task,
	}, nil
}

func (s *ModelFreeStrategy) ParseResult(result *core.Result) Proposals {
	return parseResult(result)
}

// SamplerConfigurable is implemented by minimizers whose mutation operators
// accept a pluggable residue sampler.
type SamplerConfigurable interface {
	SetResidueSampler(sampler moo.ResidueSampler)
}

// ModelGuidedStrategy differs from the model-free strategy only in how
// sampling and mutation are biased: each round it refits a residue scoring
// model on all observed sequences and injects it into the minimizer. The
// problem and result contracts are unchanged.
type ModelGuidedStrategy struct {
	task      core.Task
	minimizer SamplerConfigurable
}

// NewModelGuidedStrategy creates the model-guided strategy around a
// sampler-configurable minimizer.
func NewModelGuidedStrategy(task core.Task, minimizer SamplerConfigurable) *ModelGuidedStrategy {
	return &ModelGuidedStrategy{task: task, minimizer: minimizer}
}

func (s *ModelGuidedStrategy) BuildProblem(_ context.Context, active *core.Pool, weights []float64,
	observed *core.Pool, state *core.RoundState) (core.Problem, error) {
	s.minimizer.SetResidueSampler(moo.NewFrequencyScorer(observed.Sequences()))

	return &innerProblem{
		name:    fmt.Sprintf("%s/round-%d", state.LogPrefix, state.RoundIdx),
		seeds:   active.Candidates(),
		weights: weights,
		task:    s.task,
	}, nil
}

func (s *ModelGuidedStrategy) ParseResult(result *core.Result) Proposals {
	return parseResult(result)
}

func parseResult(result *core.Result) Proposals {
	entries := make([]core.Entry, len(result.Candidates))
	for i := range result.Candidates {
		entries[i] = core.Entry{
			Candidate:  result.Candidates[i],
			Objectives: result.Objectives[i],
		}
	}
	return Proposals{Entries: entries, Evaluations: result.Evaluations}
}
