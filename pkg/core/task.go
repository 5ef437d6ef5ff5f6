package core

import (
	"context"
)

// Task is the black-box objective oracle. Implementations own objective
// computation entirely; the outer loop only consumes its results.
type Task interface {
	// ObjectiveDim returns the number of objectives. All objective vectors
	// produced by the task have this length and are to be minimized.
	ObjectiveDim() int

	// BatchSize returns the target active-set size for each round.
	BatchSize() int

	// IsFeasible returns a mask marking which candidates are feasible.
	IsFeasible(ctx context.Context, candidates []*Candidate) ([]bool, error)

	// Evaluate scores candidates, returning one objective vector per candidate.
	Evaluate(ctx context.Context, candidates []*Candidate) ([][]float64, error)
}

// Problem is one round's inner optimization problem, built by a task
// strategy from the active pool and consumed by a Minimizer.
type Problem interface {
	// Name identifies the problem for logging.
	Name() string

	// Seeds returns the active candidates the inner optimizer starts from,
	// with their resampling weights.
	Seeds() ([]*Candidate, []float64)

	// Evaluate scores a batch of proposal candidates.
	Evaluate(ctx context.Context, candidates []*Candidate) ([][]float64, error)
}

// Termination bounds one inner optimization call.
type Termination struct {
	// MaxGenerations is the fixed number of generations to run.
	MaxGenerations int
}

// Result carries the final population of one inner optimization call.
type Result struct {
	Candidates []*Candidate
	Objectives [][]float64

	// Evaluations is an upper bound on oracle calls made by the run
	// (generations times population size, not necessarily unique).
	Evaluations int
}

// Sequences returns the raw sequences of the final population.
func (r *Result) Sequences() []string {
	out := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = c.Sequence
	}
	return out
}

// Minimizer is the external population-based optimizer collaborator. One
// Minimize call is an opaque, blocking, synchronous operation; any
// parallelism is owned by the implementation.
type Minimizer interface {
	Minimize(ctx context.Context, problem Problem, term Termination) (*Result, error)
}
