package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// GaussHermite returns the nodes and weights of an n-point Gauss-Hermite
// rule in the probabilist convention, so that sum_i w[i]*f(x[i])
// approximates E[f(Z)] for Z standard normal. The physicist rule produced
// by gonum is rescaled: nodes by sqrt(2), weights by 1/sqrt(pi).
func GaussHermite(n int) ([]float64, []float64, error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("quadrature: hermite rule needs at least one point, got %d", n)
	}
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Hermite{}.FixedLocations(x, w, math.Inf(-1), math.Inf(1))
	floats.Scale(math.Sqrt2, x)
	floats.Scale(1/math.SqrtPi, w)
	return x, w, nil
}

// GaussLegendre returns the nodes and weights of an n-point Gauss-Legendre
// rule on [lower, upper], so that sum_i w[i]*f(x[i]) approximates the
// integral of f over the interval.
func GaussLegendre(lower, upper float64, n int) ([]float64, []float64, error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("quadrature: legendre rule needs at least one point, got %d", n)
	}
	if lower >= upper {
		return nil, nil, fmt.Errorf("quadrature: legendre rule needs lower < upper, got [%v, %v]", lower, upper)
	}
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, lower, upper)
	return x, w, nil
}
