// Package resample draws fitness-biased, duplicate-free samples from scored
// populations. Weights derive from non-dominated front ranks so the transform
// works for any number of objectives.
package resample

import (
	"context"
	"math"
	"math/rand"

	"github.com/XiaoConstantine/lambo-go/pkg/errors"
	"github.com/XiaoConstantine/lambo-go/pkg/logging"
	"github.com/XiaoConstantine/lambo-go/pkg/pareto"
)

// Resampler produces rank-based resampling weights and draws
// without-replacement samples under them. The random source is seeded once at
// construction for reproducibility.
type Resampler struct {
	rng    *rand.Rand
	logger *logging.Logger
}

// New creates a resampler with the given seed.
func New(seed int64) *Resampler {
	return &Resampler{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logging.GetLogger(),
	}
}

// Weights returns a probability distribution over the population proportional
// to rank^(-k), where rank is the 1-based non-dominated front index of each
// objective vector. Higher k concentrates weight on better-ranked points;
// k = 0 yields a uniform distribution. A degenerate distribution (all-zero or
// non-finite) falls back to uniform with a warning rather than propagating.
func (r *Resampler) Weights(objectives [][]float64, k float64) []float64 {
	n := len(objectives)
	if n == 0 {
		return nil
	}
	if k == 0 {
		return uniform(n)
	}

	ranks := pareto.Ranks(objectives, pareto.Minimize)
	weights := make([]float64, n)
	total := 0.0
	for i, rank := range ranks {
		weights[i] = math.Pow(float64(rank), -k)
		total += weights[i]
	}

	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		r.logger.Warn(context.Background(),
			"degenerate resampling weights (sum=%v, k=%v), falling back to uniform", total, k)
		return uniform(n)
	}

	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// SampleWithoutReplacement draws n distinct indices under the given
// distribution. Fails with an InsufficientPopulation error when n exceeds the
// population size.
func (r *Resampler) SampleWithoutReplacement(n int, weights []float64) ([]int, error) {
	if n > len(weights) {
		return nil, errors.WithFields(
			errors.New(errors.InsufficientPopulation, "cannot sample more unique items than available"),
			errors.Fields{"requested": n, "available": len(weights)})
	}
	if n <= 0 {
		return nil, nil
	}

	// Sequential draws with renormalization over the remaining mass.
	remaining := make([]float64, len(weights))
	copy(remaining, weights)
	indices := make([]int, 0, n)

	for len(indices) < n {
		total := 0.0
		for _, w := range remaining {
			total += w
		}
		if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
			// Remaining mass is degenerate; fall back to uniform over the
			// indices not yet drawn.
			for i, w := range remaining {
				if !math.IsNaN(w) && w >= 0 {
					remaining[i] = 1
				} else {
					remaining[i] = 0
				}
			}
			drawn := make(map[int]bool, len(indices))
			for _, i := range indices {
				drawn[i] = true
			}
			total = 0
			for i := range remaining {
				if drawn[i] {
					remaining[i] = 0
				}
				total += remaining[i]
			}
		}

		u := r.rng.Float64() * total
		cum := 0.0
		picked := -1
		for i, w := range remaining {
			cum += w
			if u < cum && w > 0 {
				picked = i
				break
			}
		}
		if picked < 0 {
			// Floating point edge at the upper boundary: take the last
			// index with positive mass.
			for i := len(remaining) - 1; i >= 0; i-- {
				if remaining[i] > 0 {
					picked = i
					break
				}
			}
		}

		indices = append(indices, picked)
		remaining[picked] = 0
	}

	return indices, nil
}

func uniform(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}
