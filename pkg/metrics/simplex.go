package metrics

import (
	"math"
)

// GenerateSimplex returns the weight vectors of a regular grid over the unit
// simplex: all combinations of binsPerDim evenly spaced values in [0, 1], per
// dimension, whose coordinates sum to one. Generated once per run and reused
// for every R2 computation.
func GenerateSimplex(dim, binsPerDim int) [][]float64 {
	if dim <= 0 || binsPerDim < 2 {
		return nil
	}

	levels := make([]float64, binsPerDim)
	for i := range levels {
		levels[i] = float64(i) / float64(binsPerDim-1)
	}

	var out [][]float64
	current := make([]float64, dim)
	var walk func(pos int, sum float64)
	walk = func(pos int, sum float64) {
		if pos == dim {
			if math.Abs(sum-1.0) < 1e-9 {
				v := make([]float64, dim)
				copy(v, current)
				out = append(out, v)
			}
			return
		}
		for _, level := range levels {
			if sum+level > 1.0+1e-9 {
				break
			}
			current[pos] = level
			walk(pos+1, sum+level)
		}
	}
	walk(0, 0)
	return out
}
