// Package metrics computes scalar convergence indicators over normalized
// Pareto frontiers: hypervolume, the R2 indicator against a fixed weight
// simplex, and the hypervolume Sharpe-ratio (HSR) indicator.
//
// Convention: all objective vectors are minimized and normalized so the
// useful range falls in [0, 1] per objective.
package metrics

import (
	"sort"
)

// Hypervolume returns the volume of the region dominated by the given points
// and bounded by the reference point, under minimization. The reference point
// must be weakly worse than every point in each coordinate; coordinates
// beyond the reference contribute nothing.
func Hypervolume(points [][]float64, ref []float64) float64 {
	if len(points) == 0 {
		return 0
	}

	// Translate to gains relative to the reference corner.
	gains := make([][]float64, 0, len(points))
	for _, p := range points {
		g := make([]float64, len(ref))
		positive := false
		for j := range ref {
			g[j] = ref[j] - p[j]
			if g[j] < 0 {
				g[j] = 0
			}
			if g[j] > 0 {
				positive = true
			}
		}
		if positive {
			gains = append(gains, g)
		}
	}
	return unionVolume(gains, len(ref))
}

// unionVolume computes the volume of the union of axis-aligned boxes
// [0, g] by sweeping the last dimension and recursing on cross-sections.
func unionVolume(gains [][]float64, dim int) float64 {
	if len(gains) == 0 {
		return 0
	}
	if dim == 1 {
		best := 0.0
		for _, g := range gains {
			if g[0] > best {
				best = g[0]
			}
		}
		return best
	}

	sorted := make([][]float64, len(gains))
	copy(sorted, gains)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i][dim-1] > sorted[j][dim-1]
	})

	volume := 0.0
	for i := range sorted {
		depth := sorted[i][dim-1]
		next := 0.0
		if i+1 < len(sorted) {
			next = sorted[i+1][dim-1]
		}
		if depth <= next {
			continue
		}
		// Cross-section at this depth is the union of the first i+1 boxes
		// projected onto the remaining dimensions.
		volume += unionVolume(sorted[:i+1], dim-1) * (depth - next)
	}
	return volume
}
