package diagnostics

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EigCovX draws a random systemic covariance matrix for n firms, with mean
// reversion speeds b ~ Uniform[bMin, bMax] and correlations rho ~
// Uniform[-1, 1] at horizon t, and returns its eigenvalues in descending
// order.
func EigCovX(n int, bMin, bMax, t float64, rng *rand.Rand) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("diagnostics: need at least one firm, got %d", n)
	}
	cov := covSystemic(n, bMin, bMax, t, rng)
	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDNone); !ok {
		return nil, fmt.Errorf("diagnostics: svd did not converge for n=%d", n)
	}
	return svd.Values(nil), nil
}

// InertiaPoint holds the Monte-Carlo estimate, for one firm count, of the
// explained-inertia ratios of the systemic covariance: the top eigenvalue
// over the trace and the top two eigenvalues over the trace, with 95%
// Monte-Carlo error bounds.
type InertiaPoint struct {
	NFirms                     int
	OneFactor, TwoFactor       float64
	OneFactorErr, TwoFactorErr float64
}

// ComputeInertia estimates the explained-inertia ratios across the given firm
// counts, running nMC simulations per count. Progress is reported on a bar
// since the eigen decompositions dominate the run time for large firm counts.
func ComputeInertia(tabN []int, nMC int, bMin, bMax, t float64, rng *rand.Rand) ([]InertiaPoint, error) {
	if nMC < 1 {
		return nil, fmt.Errorf("diagnostics: need at least one simulation, got %d", nMC)
	}
	for _, n := range tabN {
		if n < 2 {
			return nil, fmt.Errorf("diagnostics: inertia needs at least two firms, got %d", n)
		}
	}

	bar := progressBar(len(tabN) * nMC)
	out := make([]InertiaPoint, 0, len(tabN))
	for _, n := range tabN {
		one := make([]float64, nMC)
		two := make([]float64, nMC)
		for i := 0; i < nMC; i++ {
			cov := covSystemic(n, bMin, bMax, t, rng)
			var eig mat.EigenSym
			if ok := eig.Factorize(cov, false); !ok {
				return nil, fmt.Errorf("diagnostics: eigen decomposition failed for n=%d", n)
			}
			vals := eig.Values(nil) // ascending
			tr := mat.Trace(cov)
			one[i] = vals[n-1] / tr
			two[i] = (vals[n-1] + vals[n-2]) / tr
			bar.Add(1)
		}
		out = append(out, InertiaPoint{
			NFirms:       n,
			OneFactor:    stat.Mean(one, nil),
			TwoFactor:    stat.Mean(two, nil),
			OneFactorErr: 1.96 * stat.StdDev(one, nil) / math.Sqrt(float64(nMC)),
			TwoFactorErr: 1.96 * stat.StdDev(two, nil) / math.Sqrt(float64(nMC)),
		})
	}
	return out, nil
}

// covSystemic builds one draw of the systemic covariance
// cov[i][j] = rho_i rho_j (1 - exp(-(b_i+b_j) t)) / (b_i+b_j).
func covSystemic(n int, bMin, bMax, t float64, rng *rand.Rand) *mat.SymDense {
	ub := distuv.Uniform{Min: bMin, Max: bMax, Src: rng}
	ur := distuv.Uniform{Min: -1.0, Max: 1.0, Src: rng}
	b := make([]float64, n)
	rho := make([]float64, n)
	for i := range b {
		b[i] = ub.Rand()
		rho[i] = ur.Rand()
	}
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s := b[i] + b[j]
			cov.SetSym(i, j, rho[i]*rho[j]*(1.0-math.Exp(-s*t))/s)
		}
	}
	return cov
}
