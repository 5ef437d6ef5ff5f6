package moo

import (
	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/pareto"
)

// Individual is one member of the inner optimizer's population.
type Individual struct {
	Candidate  *core.Candidate
	Objectives []float64

	rank     int
	distance float64
}

// NonDominatedSort partitions the population into fronts by repeated
// non-domination filtering. Front 0 is the best; each individual's rank is
// set to its front index.
func NonDominatedSort(population []*Individual) [][]*Individual {
	var fronts [][]*Individual
	remaining := make([]*Individual, len(population))
	copy(remaining, population)

	rank := 0
	for len(remaining) > 0 {
		var front, rest []*Individual
		for i, ind := range remaining {
			dominated := false
			for j, other := range remaining {
				if i == j {
					continue
				}
				if pareto.Dominates(other.Objectives, ind.Objectives, pareto.Minimize) {
					dominated = true
					break
				}
			}
			if dominated {
				rest = append(rest, ind)
			} else {
				ind.rank = rank
				front = append(front, ind)
			}
		}
		fronts = append(fronts, front)
		remaining = rest
		rank++
	}
	return fronts
}
