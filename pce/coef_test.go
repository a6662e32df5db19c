package pce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestCoefOrderZero(t *testing.T) {
	n := distuv.Normal{Mu: 0.0, Sigma: 1.0}
	for _, x := range []float64{-4.0, -1.5, -0.3, 0.0, 0.3, 1.5, 4.0} {
		require.InDelta(t, 1.0-n.CDF(x), Coef(0, x), 1e-14)
	}
}

func TestCoefOrderOne(t *testing.T) {
	// He_0 = 1, so the first-order coefficient is the normal density.
	n := distuv.Normal{Mu: 0.0, Sigma: 1.0}
	for _, x := range []float64{-2.0, 0.0, 0.7, 3.1} {
		require.InDelta(t, n.Prob(x), Coef(1, x), 1e-14)
	}
}

func TestCoefHighOrderStable(t *testing.T) {
	// Orders up to 40 are used by the moment engines; the factorial
	// normalization must keep the coefficient finite and shrinking.
	for _, x := range []float64{-3.0, -0.5, 0.0, 0.5, 3.0} {
		c := Coef(40, x)
		require.False(t, math.IsNaN(c))
		require.False(t, math.IsInf(c, 0))
		require.Less(t, math.Abs(c), 1.0)
	}
}

func TestHermiteNorm(t *testing.T) {
	type testCases struct {
		name string
		n    int
		fcn  func(x float64) float64
	}
	for _, test := range []testCases{
		{name: "He0", n: 0, fcn: func(x float64) float64 { return 1.0 }},
		{name: "He1", n: 1, fcn: func(x float64) float64 { return x }},
		{name: "He2", n: 2, fcn: func(x float64) float64 { return x*x - 1.0 }},
		{name: "He3", n: 3, fcn: func(x float64) float64 { return x*x*x - 3.0*x }},
		{name: "He4", n: 4, fcn: func(x float64) float64 { return x*x*x*x - 6.0*x*x + 3.0 }},
	} {
		t.Run(test.name, func(t *testing.T) {
			for _, x := range []float64{-2.5, -1.0, 0.0, 0.4, 1.9} {
				require.InDelta(t, test.fcn(x), HermiteNorm(test.n, x), 1e-12)
			}
		})
	}
}
