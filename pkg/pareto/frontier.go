// Package pareto implements non-domination filtering over candidate pools
// and the persistent frontier history archive used for backtrack resampling.
package pareto

import (
	"github.com/XiaoConstantine/lambo-go/pkg/core"
)

// Direction selects the dominance orientation for a frontier computation.
type Direction int

const (
	// Minimize treats lower objective values as better. This is the stored
	// convention for all objective vectors in the system.
	Minimize Direction = iota
	// Maximize treats higher objective values as better. Only used by call
	// sites that explicitly negate for a maximization utility.
	Maximize
)

// Dominates reports whether a dominates b under the given direction:
// a is weakly better in every coordinate and strictly better in at least one.
func Dominates(a, b []float64, dir Direction) bool {
	strictlyBetter := false
	for i := range a {
		ai, bi := a[i], b[i]
		if dir == Maximize {
			ai, bi = -ai, -bi
		}
		if ai > bi {
			return false
		}
		if ai < bi {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// Frontier returns the maximal non-dominated subset of the pool. A pool of
// size one is trivially non-dominated and returned unchanged. Identical
// vectors do not dominate one another and are all retained.
func Frontier(pool *core.Pool, dir Direction) *core.Pool {
	if pool.Len() <= 1 {
		return pool.Clone()
	}

	entries := pool.Entries()
	out := core.NewPool()
	for i := range entries {
		dominated := false
		for j := range entries {
			if i == j {
				continue
			}
			if Dominates(entries[j].Objectives, entries[i].Objectives, dir) {
				dominated = true
				break
			}
		}
		if !dominated {
			out.Append(entries[i].Candidate, entries[i].Objectives)
		}
	}
	return out
}

// Ranks assigns each objective vector its non-dominated front index,
// 1-based: every point in the first front gets rank 1, points dominated only
// by the first front get rank 2, and so on. Used for rank-based resampling
// weights.
func Ranks(objectives [][]float64, dir Direction) []int {
	n := len(objectives)
	ranks := make([]int, n)
	remaining := make([]int, 0, n)
	for i := 0; i < n; i++ {
		remaining = append(remaining, i)
	}

	rank := 1
	for len(remaining) > 0 {
		var front, rest []int
		for _, i := range remaining {
			dominated := false
			for _, j := range remaining {
				if i == j {
					continue
				}
				if Dominates(objectives[j], objectives[i], dir) {
					dominated = true
					break
				}
			}
			if dominated {
				rest = append(rest, i)
			} else {
				front = append(front, i)
			}
		}
		for _, i := range front {
			ranks[i] = rank
		}
		remaining = rest
		rank++
	}
	return ranks
}
