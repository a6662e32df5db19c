package pce

import (
	"fmt"
	"math"

	"github.com/banachtech/climate-pce/quadrature"
	"gonum.org/v1/gonum/mat"
)

// DefaultQuadPoints is the Gauss-Hermite resolution used when the caller does
// not ask for a specific one.
const DefaultQuadPoints = 40

// MeanCovQuad computes the same mean matrix and covariance matrices as Mean
// and Cov but via Gauss-Hermite quadrature against the Gaussian density.
// Orders 0 and 1 of the mean keep their closed forms; higher mean orders are
// quadrature sums over Hermite-polynomial integrands on conditionally
// centered nodes, and covariance entries are quadrature sums of
// coefficient-function products on the raw nodes. nQuad <= 0 selects
// DefaultQuadPoints; accuracy grows with nQuad.
func MeanCovQuad(a, b []float64, order, nQuad int) (*mat.Dense, []*mat.SymDense, error) {
	if len(a) != len(b) {
		return nil, nil, fmt.Errorf("%w: len(a)=%d, len(b)=%d", ErrShapeMismatch, len(a), len(b))
	}
	if nQuad <= 0 {
		nQuad = DefaultQuadPoints
	}
	x, w, err := quadrature.GaussHermite(nQuad)
	if err != nil {
		return nil, nil, err
	}

	mean := mat.NewDense(order+1, len(a), nil)
	covs := make([]*mat.SymDense, len(a))
	for k := range a {
		ak, bk := a[k], b[k]
		v := 1.0 + ak*ak
		sig := 1.0 / math.Sqrt(v)
		muCond := -ak * bk / v

		// Raw and conditionally centered node sets.
		xab := make([]float64, nQuad)
		yab := make([]float64, nQuad)
		for i := range x {
			xab[i] = ak*x[i] + bk
			yab[i] = ak*(sig*x[i]+muCond) + bk
		}
		damp := sig * math.Exp(-bk*bk/(2.0*v)) / math.Sqrt(2.0*math.Pi)

		mk := make([]float64, order+1)
		mk[0] = stdNorm.CDF(-bk * sig)
		if order >= 1 {
			mk[1] = stdNorm.Prob(bk*sig) * sig
		}
		for m := 2; m <= order; m++ {
			var sum float64
			for i := range x {
				sum += w[i] * HermiteNorm(m-1, yab[i])
			}
			mk[m] = sum * damp / factorial(m)
		}

		// Per-order integrands for the covariance sums, on the raw nodes.
		// The conditionally centered transform absorbs exactly one Gaussian
		// density factor and so only serves the mean; the covariance product
		// carries the density squared, so each factor must be the coefficient
		// function itself for the sum to approximate E[coef_m1 * coef_m2].
		integ := make([][]float64, order+1)
		for m := 0; m <= order; m++ {
			integ[m] = make([]float64, nQuad)
			for i := range x {
				integ[m][i] = Coef(m, xab[i])
			}
		}

		cov := mat.NewSymDense(order+1, nil)
		for m1 := 0; m1 <= order; m1++ {
			for m2 := m1; m2 <= order; m2++ {
				var sum float64
				for i := range x {
					sum += w[i] * integ[m1][i] * integ[m2][i]
				}
				cov.SetSym(m1, m2, sum-mk[m1]*mk[m2])
			}
		}

		for m := range mk {
			mean.Set(m, k, mk[m])
		}
		covs[k] = cov
	}
	return mean, covs, nil
}
