package pce

import (
	"errors"
	"fmt"
	"math"

	"github.com/banachtech/climate-pce/quadrature"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when the parameter vectors a and b passed to a
// moment engine do not have the same length.
var ErrShapeMismatch = errors.New("pce: a and b must have the same length")

// ErrZeroStd is returned by Cov when a conditional standard deviation is
// exactly zero. The covariance recursion divides by a^2 and is undefined
// there, so the input is rejected up front.
var ErrZeroStd = errors.New("pce: zero conditional standard deviation")

// Mean computes the closed-form mean matrix E[coef_i(a_k X + b_k)] for orders
// i = 0..order and X standard normal. Row i indexes the PCE order, column k
// the entry of the parameter vectors. Orders 0, 1 and 2 have closed forms;
// higher orders follow a three-term recursion divided by (1 + a^2) at each
// step.
func Mean(order int, a, b []float64) (*mat.Dense, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: len(a)=%d, len(b)=%d", ErrShapeMismatch, len(a), len(b))
	}
	m := mat.NewDense(order+1, len(a), nil)
	for k := range a {
		col := meanVec(order, a[k], b[k])
		for i := 0; i <= order; i++ {
			m.Set(i, k, col[i])
		}
	}
	return m, nil
}

// meanVec is the scalar mean recursion backing Mean and the sigma0 row of the
// covariance.
func meanVec(order int, a, b float64) []float64 {
	v := 1.0 + a*a
	x := b / math.Sqrt(v)
	out := make([]float64, order+1)
	out[0] = stdNorm.CDF(-x)
	if order >= 1 {
		out[1] = math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi) / math.Sqrt(v)
	}
	if order >= 2 {
		out[2] = (b / 2.0) * out[1] / v
	}
	for i := 3; i <= order; i++ {
		fi := float64(i)
		out[i] = ((b/fi)*out[i-1] - ((fi-2.0)/(fi*(fi-1.0)))*out[i-2]) / v
	}
	return out
}

// Cov computes the covariance matrices Cov[coef_i(a_k X + b_k),
// coef_j(a_k X + b_k)] for i, j = 0..order, one symmetric matrix per entry k.
// Row and column zero come from the sigma0 recursion; interior entries follow
// a recursion in j for fixed i. Entry (i, j) of the recursion is only valid
// when i+j does not exceed the grid order, so the recursion runs on an
// internal grid of order 2*order and the leading block is returned,
// symmetrized.
func Cov(order int, a, b []float64) ([]*mat.SymDense, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: len(a)=%d, len(b)=%d", ErrShapeMismatch, len(a), len(b))
	}
	for k := range a {
		if a[k] == 0 {
			return nil, fmt.Errorf("%w: entry %d", ErrZeroStd, k)
		}
	}
	grid := 2 * order
	out := make([]*mat.SymDense, len(a))
	for k := range a {
		ak, bk := a[k], b[k]
		v := 1.0 + ak*ak
		mu := meanVec(grid, ak, bk)
		s0, err := sigma0(grid, ak, bk)
		if err != nil {
			return nil, err
		}

		c := make([][]float64, grid+1)
		for i := range c {
			c[i] = make([]float64, grid+1)
		}
		copy(c[0], s0)
		for i := 1; i <= grid; i++ {
			c[i][0] = s0[i]
		}
		for i := 0; i < grid; i++ {
			for j := 0; j < grid-1; j++ {
				fi, fj := float64(i), float64(j)
				c[i+1][j+1] = (1.0/((fi+1.0)*ak*ak))*(-v*(fj+2.0)*c[i][j+2]+bk*c[i][j+1]-(fj/(fj+1.0))*c[i][j]) - mu[i+1]*mu[j+1]
			}
		}

		sym := mat.NewSymDense(order+1, nil)
		for i := 0; i <= order; i++ {
			for j := i; j <= order; j++ {
				sym.SetSym(i, j, 0.5*(c[i][j]+c[j][i]))
			}
		}
		out[k] = sym
	}
	return out, nil
}

// sigma0 computes row zero of the covariance, Cov[coef_0, coef_i] for
// i = 0..order. The variance of coef_0 needs the bivariate normal CDF at
// (-b, -b) under the covariance [[1+a^2, a^2], [a^2, 1+a^2]]; the rest of the
// row recurses on the mean vector evaluated at the conditional parameters
// (a/sqrt(1+a^2), b/(1+a^2)).
func sigma0(order int, a, b float64) ([]float64, error) {
	v := 1.0 + a*a
	mu := meanVec(order, a, b)
	mu2 := meanVec(order, a/math.Sqrt(v), b/v)

	s := make([]float64, order+1)
	h := -b / math.Sqrt(v)
	bi, err := biNormCDF(h, h, a*a/v)
	if err != nil {
		return nil, err
	}
	s[0] = bi - mu[0]*mu[0]
	if order >= 1 {
		s[1] = mu[1] * (mu2[0] - mu[0])
	}
	for i := 2; i <= order; i++ {
		fi := float64(i)
		s[i] = (b*s[i-1] - ((fi-2.0)/(fi-1.0))*s[i-2] - a*a*mu[1]*mu2[i-1]) / (fi * v)
	}
	return s, nil
}

// biNormCDF returns P(X <= h, Y <= k) for standard normal X, Y with
// correlation rho, via the Drezner-Wesolowsky tetrachoric integral
// Phi(h)Phi(k) + (1/2pi) int_0^rho exp(-(h^2 - 2 r h k + k^2)/(2(1-r^2))) /
// sqrt(1-r^2) dr, computed with a Gauss-Legendre rule.
func biNormCDF(h, k, rho float64) (float64, error) {
	p := stdNorm.CDF(h) * stdNorm.CDF(k)
	if rho == 0 {
		return p, nil
	}
	lo, hi, sign := 0.0, rho, 1.0
	if rho < 0 {
		lo, hi, sign = rho, 0.0, -1.0
	}
	x, w, err := quadrature.GaussLegendre(lo, hi, 64)
	if err != nil {
		return math.NaN(), err
	}
	var sum float64
	for i := range x {
		r := x[i]
		sum += w[i] * math.Exp(-(h*h-2.0*r*h*k+k*k)/(2.0*(1.0-r*r))) / math.Sqrt(1.0-r*r)
	}
	return p + sign*sum/(2.0*math.Pi), nil
}
