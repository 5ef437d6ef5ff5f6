package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// HSRCalculator computes the hypervolume Sharpe-ratio indicator over
// objective values rescaled into a fixed lower/upper box. Points are treated
// as assets whose return is Bernoulli under a box-uniform benchmark
// distribution; the indicator is the maximum Sharpe ratio attainable by a
// long-only portfolio of those assets.
type HSRCalculator struct {
	Lower []float64
	Upper []float64

	// MaxIterations bounds the projected-gradient solve. Zero means the
	// default of 500.
	MaxIterations int
}

// NewHSRCalculator creates a calculator for the given box.
func NewHSRCalculator(lower, upper []float64) *HSRCalculator {
	return &HSRCalculator{Lower: lower, Upper: upper}
}

// Calculate returns the HSR indicator for the given points together with the
// optimal portfolio weights. Points outside the box are clipped to it.
func (h *HSRCalculator) Calculate(points [][]float64) (float64, []float64) {
	n := len(points)
	if n == 0 {
		return 0, nil
	}
	dim := len(h.Lower)

	clipped := make([][]float64, n)
	for i, p := range points {
		c := make([]float64, dim)
		for j := 0; j < dim; j++ {
			c[j] = math.Min(math.Max(p[j], h.Lower[j]), h.Upper[j])
		}
		clipped[i] = c
	}

	// Expected return of each asset: probability that a box-uniform sample
	// is dominated by the point.
	p := mat.NewVecDense(n, nil)
	for i, x := range clipped {
		prod := 1.0
		for j := 0; j < dim; j++ {
			prod *= (h.Upper[j] - x[j]) / (h.Upper[j] - h.Lower[j])
		}
		p.SetVec(i, prod)
	}

	// Covariance: joint domination probability minus the product of the
	// marginals.
	q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			joint := 1.0
			for k := 0; k < dim; k++ {
				hi := math.Max(clipped[i][k], clipped[j][k])
				joint *= (h.Upper[k] - hi) / (h.Upper[k] - h.Lower[k])
			}
			q.SetSym(i, j, joint-p.AtVec(i)*p.AtVec(j))
		}
	}

	weights := h.maxSharpe(p, q)
	ratio := sharpeRatio(weights, p, q)
	out := make([]float64, n)
	for i := range out {
		out[i] = weights.AtVec(i)
	}
	return ratio, out
}

// maxSharpe maximizes p'w / sqrt(w'Qw) over the probability simplex with
// projected gradient ascent from a uniform start. The objective is
// scale-invariant, so renormalizing onto the simplex each step is sound.
func (h *HSRCalculator) maxSharpe(p *mat.VecDense, q *mat.SymDense) *mat.VecDense {
	n := p.Len()
	iters := h.MaxIterations
	if iters <= 0 {
		iters = 500
	}

	w := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		w.SetVec(i, 1.0/float64(n))
	}

	grad := mat.NewVecDense(n, nil)
	qw := mat.NewVecDense(n, nil)
	step := 0.1

	best := sharpeRatio(w, p, q)
	for it := 0; it < iters; it++ {
		qw.MulVec(q, w)
		ret := mat.Dot(p, w)
		risk := mat.Dot(w, qw)
		if risk <= 1e-15 {
			break
		}
		// d/dw [ p'w / sqrt(w'Qw) ] = p/sqrt(risk) - ret*Qw/risk^(3/2)
		invSqrt := 1.0 / math.Sqrt(risk)
		for i := 0; i < n; i++ {
			grad.SetVec(i, p.AtVec(i)*invSqrt-ret*qw.AtVec(i)*invSqrt/risk)
		}

		next := mat.NewVecDense(n, nil)
		next.AddScaledVec(w, step, grad)
		projectSimplex(next)

		cand := sharpeRatio(next, p, q)
		if cand > best {
			best = cand
			w.CopyVec(next)
		} else {
			step /= 2
			if step < 1e-10 {
				break
			}
		}
	}
	return w
}

func sharpeRatio(w, p *mat.VecDense, q *mat.SymDense) float64 {
	qw := mat.NewVecDense(w.Len(), nil)
	qw.MulVec(q, w)
	risk := mat.Dot(w, qw)
	if risk <= 1e-15 {
		return 0
	}
	return mat.Dot(p, w) / math.Sqrt(risk)
}

// projectSimplex clips negatives and renormalizes to unit sum, falling back
// to uniform when all mass is clipped away.
func projectSimplex(v *mat.VecDense) {
	n := v.Len()
	total := 0.0
	for i := 0; i < n; i++ {
		x := v.AtVec(i)
		if x < 0 {
			x = 0
			v.SetVec(i, 0)
		}
		total += x
	}
	if total <= 0 {
		for i := 0; i < n; i++ {
			v.SetVec(i, 1.0/float64(n))
		}
		return
	}
	for i := 0; i < n; i++ {
		v.SetVec(i, v.AtVec(i)/total)
	}
}
