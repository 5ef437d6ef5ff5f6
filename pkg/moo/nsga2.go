// Package moo is a sequence-encoded NSGA-II minimizer: fast non-dominated
// sorting, crowding-distance truncation, binary tournament selection,
// single-point sequence crossover, and pluggable point-mutation residue
// sampling. It implements the core.Minimizer contract and owns the only
// parallelism in the system: bounded concurrent evaluation of each
// generation's offspring.
package moo

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/errors"
	"github.com/XiaoConstantine/lambo-go/pkg/logging"
	"github.com/sourcegraph/conc/pool"
)

// Config contains the NSGA-II parameters.
type Config struct {
	PopulationSize int
	CrossoverRate  float64
	MutationRate   float64
	Alphabet       []rune
	Concurrency    int // Max concurrent evaluation batches, default 4
	EvalBatchSize  int // Candidates per evaluation batch, default 8
	Seed           int64
}

// DefaultConfig returns reasonable NSGA-II defaults for short residue
// sequences.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 16,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		Alphabet:       []rune("ACDEFGHIKLMNPQRSTVWY"),
		Concurrency:    4,
		EvalBatchSize:  8,
	}
}

// NSGAII is a sequence-based NSGA-II minimizer.
type NSGAII struct {
	config  Config
	sampler ResidueSampler
	rng     *rand.Rand
	logger  *logging.Logger
}

// NewNSGAII creates an NSGA-II minimizer. A nil sampler defaults to uniform
// residue sampling.
func NewNSGAII(config Config, sampler ResidueSampler) *NSGAII {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.EvalBatchSize <= 0 {
		config.EvalBatchSize = 8
	}
	if len(config.Alphabet) == 0 {
		config.Alphabet = DefaultConfig().Alphabet
	}
	if sampler == nil {
		sampler = UniformSampler{}
	}
	return &NSGAII{
		config:  config,
		sampler: sampler,
		rng:     rand.New(rand.NewSource(config.Seed)),
		logger:  logging.GetLogger(),
	}
}

// SetResidueSampler swaps the mutation residue sampler. Called between
// rounds by model-guided strategies; never during a Minimize call.
func (n *NSGAII) SetResidueSampler(sampler ResidueSampler) {
	if sampler == nil {
		sampler = UniformSampler{}
	}
	n.sampler = sampler
}

// Minimize runs the configured number of generations over the problem and
// returns the final population. The evaluation count reported is
// generations times population size, an upper bound on oracle calls.
func (n *NSGAII) Minimize(ctx context.Context, problem core.Problem, term core.Termination) (*core.Result, error) {
	seeds, weights := problem.Seeds()
	if len(seeds) == 0 {
		return nil, errors.New(errors.InvalidInput, "inner problem has no seed candidates")
	}

	population, err := n.initialize(ctx, problem, seeds, weights)
	if err != nil {
		return nil, err
	}

	for gen := 0; gen < term.MaxGenerations; gen++ {
		if err := errors.CheckContext(ctx, "inner optimization"); err != nil {
			return nil, err
		}

		offspring, err := n.reproduce(ctx, problem, population)
		if err != nil {
			return nil, err
		}

		population = n.truncate(append(population, offspring...))
		n.logger.Debug(ctx, "generation %d/%d complete: population=%d",
			gen+1, term.MaxGenerations, len(population))
	}

	result := &core.Result{
		Candidates:  make([]*core.Candidate, len(population)),
		Objectives:  make([][]float64, len(population)),
		Evaluations: term.MaxGenerations * n.config.PopulationSize,
	}
	for i, ind := range population {
		result.Candidates[i] = ind.Candidate
		result.Objectives[i] = ind.Objectives
	}

	// Final populations routinely carry duplicate sequences; the outer loop's
	// dedup filter drops them, so surface the count here.
	unique := make(map[string]struct{}, len(result.Candidates))
	for _, seq := range result.Sequences() {
		unique[seq] = struct{}{}
	}
	n.logger.Debug(ctx, "final population: %d candidates, %d unique sequences",
		len(result.Candidates), len(unique))
	return result, nil
}

// initialize builds the starting population by weighted draws (with
// replacement) from the seed candidates, mutating each draw once so the
// population explores beyond the seeds immediately.
func (n *NSGAII) initialize(ctx context.Context, problem core.Problem, seeds []*core.Candidate, weights []float64) ([]*Individual, error) {
	candidates := make([]*core.Candidate, n.config.PopulationSize)
	for i := range candidates {
		parent := seeds[n.drawWeighted(weights)]
		candidates[i] = parent.Mutate(n.mutateSequence(parent.Sequence))
	}

	objectives, err := n.evaluate(ctx, problem, candidates)
	if err != nil {
		return nil, err
	}

	population := make([]*Individual, len(candidates))
	for i := range candidates {
		population[i] = &Individual{Candidate: candidates[i], Objectives: objectives[i]}
	}
	// Establish ranks and distances for the first tournament round.
	for _, front := range NonDominatedSort(population) {
		crowdingDistance(front)
	}
	return population, nil
}

// reproduce produces and evaluates one generation of offspring.
func (n *NSGAII) reproduce(ctx context.Context, problem core.Problem, population []*Individual) ([]*Individual, error) {
	offspring := make([]*core.Candidate, 0, n.config.PopulationSize)
	for len(offspring) < n.config.PopulationSize {
		parent1 := n.tournamentSelect(population)
		parent2 := n.tournamentSelect(population)

		seq1, seq2 := n.crossover(parent1.Candidate.Sequence, parent2.Candidate.Sequence)
		seq1 = n.mutateSequence(seq1)
		seq2 = n.mutateSequence(seq2)

		offspring = append(offspring, parent1.Candidate.Mutate(seq1))
		if len(offspring) < n.config.PopulationSize {
			offspring = append(offspring, parent2.Candidate.Mutate(seq2))
		}
	}

	objectives, err := n.evaluate(ctx, problem, offspring)
	if err != nil {
		return nil, err
	}

	out := make([]*Individual, len(offspring))
	for i := range offspring {
		out[i] = &Individual{Candidate: offspring[i], Objectives: objectives[i]}
	}
	return out, nil
}

// evaluate scores candidates in bounded-concurrency batches.
func (n *NSGAII) evaluate(ctx context.Context, problem core.Problem, candidates []*core.Candidate) ([][]float64, error) {
	objectives := make([][]float64, len(candidates))

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(n.config.Concurrency)
	for start := 0; start < len(candidates); start += n.config.EvalBatchSize {
		end := start + n.config.EvalBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		start, end := start, end // per-iteration copies for the goroutine under Go <1.22 loop semantics
		p.Go(func(ctx context.Context) error {
			batch, err := problem.Evaluate(ctx, candidates[start:end])
			if err != nil {
				return errors.Wrap(err, errors.OptimizationFailed, "batch evaluation failed")
			}
			copy(objectives[start:end], batch)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return objectives, nil
}

// truncate performs NSGA-II environmental selection: fill by whole fronts,
// then break the boundary front by crowding distance.
func (n *NSGAII) truncate(combined []*Individual) []*Individual {
	fronts := NonDominatedSort(combined)

	next := make([]*Individual, 0, n.config.PopulationSize)
	for _, front := range fronts {
		crowdingDistance(front)
		if len(next)+len(front) <= n.config.PopulationSize {
			next = append(next, front...)
			continue
		}
		sort.Slice(front, func(i, j int) bool {
			return front[i].distance > front[j].distance
		})
		next = append(next, front[:n.config.PopulationSize-len(next)]...)
		break
	}
	return next
}

// tournamentSelect runs a binary tournament on rank, breaking ties by
// crowding distance.
func (n *NSGAII) tournamentSelect(population []*Individual) *Individual {
	best := population[n.rng.Intn(len(population))]
	contestant := population[n.rng.Intn(len(population))]
	if contestant.rank < best.rank ||
		(contestant.rank == best.rank && contestant.distance > best.distance) {
		best = contestant
	}
	return best
}

// crossover performs single-point crossover on two sequences, cutting within
// the shorter one.
func (n *NSGAII) crossover(a, b string) (string, string) {
	if n.rng.Float64() >= n.config.CrossoverRate {
		return a, b
	}
	ra, rb := []rune(a), []rune(b)
	short := len(ra)
	if len(rb) < short {
		short = len(rb)
	}
	if short < 2 {
		return a, b
	}
	cut := 1 + n.rng.Intn(short-1)

	child1 := append(append([]rune{}, ra[:cut]...), rb[cut:]...)
	child2 := append(append([]rune{}, rb[:cut]...), ra[cut:]...)
	return string(child1), string(child2)
}

// mutateSequence applies per-position point mutation through the residue
// sampler.
func (n *NSGAII) mutateSequence(seq string) string {
	runes := []rune(seq)
	for i := range runes {
		if n.rng.Float64() < n.config.MutationRate {
			runes[i] = n.sampler.Sample(n.rng, i, n.config.Alphabet)
		}
	}
	return string(runes)
}

func (n *NSGAII) drawWeighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return n.rng.Intn(len(weights))
	}
	u := n.rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if u < cum {
			return i
		}
	}
	return len(weights) - 1
}

// crowdingDistance assigns each individual in a front its crowding distance.
func crowdingDistance(front []*Individual) {
	if len(front) <= 2 {
		for _, ind := range front {
			ind.distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(front[0].Objectives)
	for _, ind := range front {
		ind.distance = 0
	}

	for m := 0; m < numObjectives; m++ {
		sort.Slice(front, func(i, j int) bool {
			return front[i].Objectives[m] < front[j].Objectives[m]
		})

		front[0].distance = math.Inf(1)
		front[len(front)-1].distance = math.Inf(1)

		objectiveRange := front[len(front)-1].Objectives[m] - front[0].Objectives[m]
		if objectiveRange == 0 {
			continue
		}

		for i := 1; i < len(front)-1; i++ {
			front[i].distance += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / objectiveRange
		}
	}
}
