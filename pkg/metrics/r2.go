package metrics

import (
	"math"
)

// R2Indicator computes the R2 coverage indicator of a solution set against a
// fixed set of simplex weight vectors and a utopian point: the mean over
// weight vectors of the best (smallest) weighted Chebyshev distance any
// solution achieves from the utopian point. Lower values indicate better
// coverage of the frontier.
func R2Indicator(simplex [][]float64, solutions [][]float64, utopia []float64) float64 {
	if len(simplex) == 0 || len(solutions) == 0 {
		return math.Inf(1)
	}

	sum := 0.0
	for _, w := range simplex {
		best := math.Inf(1)
		for _, s := range solutions {
			worst := 0.0
			for j := range w {
				d := w[j] * math.Abs(utopia[j]-s[j])
				if d > worst {
					worst = d
				}
			}
			if worst < best {
				best = worst
			}
		}
		sum += best
	}
	return sum / float64(len(simplex))
}
