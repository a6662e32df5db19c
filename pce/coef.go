package pce

import (
	"gonum.org/v1/gonum/stat/distuv"
)

var stdNorm = distuv.Normal{Mu: 0.0, Sigma: 1.0}

// Coef evaluates the n-th order PCE coefficient of the indicator 1{x < Z}
// with Z standard normal, E[He_n(Z) 1{x<Z}] / n!. Order zero reduces to the
// standard normal survival function at x; higher orders reduce to the normal
// density at x times He_{n-1}(x) / n!.
func Coef(n int, x float64) float64 {
	if n == 0 {
		return stdNorm.CDF(-x)
	}
	return stdNorm.Prob(x) * HermiteNorm(n-1, x) / factorial(n)
}

// HermiteNorm evaluates the probabilist Hermite polynomial He_n at x by the
// three-term recurrence He_{k+1} = x He_k - k He_{k-1}.
func HermiteNorm(n int, x float64) float64 {
	if n == 0 {
		return 1.0
	}
	prev, cur := 1.0, x
	for k := 1; k < n; k++ {
		prev, cur = cur, x*cur-float64(k)*prev
	}
	return cur
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
