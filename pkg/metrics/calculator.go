package metrics

import (
	"math"
)

// hvFloor guards relative-hypervolume division against a (near-)zero
// round-zero reference.
const hvFloor = 1e-6

// Calculator bundles the per-run metric state: the hypervolume reference
// corner, the R2 weight simplex (generated once), the HSR box, and the
// round-zero hypervolume used for relative reporting.
type Calculator struct {
	objDim  int
	refHV   []float64 // worst corner of the normalized box, all ones
	utopia  []float64 // ideal corner, all zeros
	simplex [][]float64

	hsr *HSRCalculator

	baselineHV float64
	hasBase    bool
}

// NewCalculator creates a calculator for objDim objectives using a simplex
// with binsPerDim weight levels per dimension.
func NewCalculator(objDim, binsPerDim int) *Calculator {
	refHV := make([]float64, objDim)
	utopia := make([]float64, objDim)
	hsrLower := make([]float64, objDim)
	hsrUpper := make([]float64, objDim)
	for i := 0; i < objDim; i++ {
		refHV[i] = 1
		hsrLower[i] = -1
		hsrUpper[i] = 0
	}

	return &Calculator{
		objDim:  objDim,
		refHV:   refHV,
		utopia:  utopia,
		simplex: GenerateSimplex(objDim, binsPerDim),
		hsr:     NewHSRCalculator(hsrLower, hsrUpper),
	}
}

// Report holds the scalar convergence indicators for one round.
type Report struct {
	Hypervolume         float64
	HypervolumeRelative float64
	R2                  float64
	HSRI                float64
}

// Compute evaluates all indicators over a normalized frontier objective
// matrix. The first call establishes the relative-hypervolume baseline.
func (c *Calculator) Compute(frontier [][]float64) Report {
	hv := Hypervolume(frontier, c.refHV)
	r2 := R2Indicator(c.simplex, frontier, c.utopia)

	// HSR operates in the [-1, 0] box over negated stored values.
	negated := make([][]float64, len(frontier))
	for i, v := range frontier {
		neg := make([]float64, len(v))
		for j := range v {
			neg[j] = -v[j]
		}
		negated[i] = neg
	}
	hsri, _ := c.hsr.Calculate(negated)

	if !c.hasBase {
		c.baselineHV = hv
		c.hasBase = true
	}

	return Report{
		Hypervolume:         hv,
		HypervolumeRelative: hv / math.Max(hvFloor, c.baselineHV),
		R2:                  r2,
		HSRI:                hsri,
	}
}
