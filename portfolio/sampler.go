package portfolio

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleGaussian draws nSim vectors with the given mean and covariance, one
// per column of the returned matrix. Cholesky-based sampling is attempted
// first; when the covariance is not positive definite the draw falls back to
// an eigen-decomposition reconstruction, which tolerates rank-deficient
// covariances and matches the requested moments exactly in expectation. The
// fallback is silent, degeneracy is not an error.
func SampleGaussian(mean *mat.VecDense, cov *mat.SymDense, nSim int, rng *rand.Rand) *mat.Dense {
	n := mean.Len()
	out := mat.NewDense(n, nSim, nil)

	mu := make([]float64, n)
	for i := range mu {
		mu[i] = mean.AtVec(i)
	}
	if dist, ok := distmv.NewNormal(mu, cov, rng); ok {
		buf := make([]float64, n)
		for j := 0; j < nSim; j++ {
			dist.Rand(buf)
			for i := range buf {
				out.Set(i, j, buf[i])
			}
		}
		return out
	}

	// Covariance is rank deficient. Rebuild the draw from its spectrum:
	// eps = mean + sum_r sqrt(s_r) * U[:,r] * z_r over positive singular
	// values.
	var svd mat.SVD
	svd.Factorize(cov, mat.SVDFull)
	var u mat.Dense
	svd.UTo(&u)
	s := svd.Values(nil)

	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rng}
	for r := range s {
		if s[r] <= 0 {
			continue
		}
		sr := math.Sqrt(s[r])
		for j := 0; j < nSim; j++ {
			z := d.Rand()
			for i := 0; i < n; i++ {
				out.Set(i, j, out.At(i, j)+sr*u.At(i, r)*z)
			}
		}
	}
	for j := 0; j < nSim; j++ {
		for i := 0; i < n; i++ {
			out.Set(i, j, out.At(i, j)+mu[i])
		}
	}
	return out
}

// CholeskyFromSVD returns a lower triangular L with L*L^T = a for a symmetric
// positive semi-definite a. It builds B = diag(sqrt(s)) * U^T from the SVD of
// a and takes the transposed R factor of a QR pass over B, which works where
// a plain Cholesky factorization fails on singular matrices.
func CholeskyFromSVD(a *mat.SymDense) (*mat.Dense, error) {
	n, _ := a.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, errors.New("portfolio: svd factorization did not converge")
	}
	var u mat.Dense
	svd.UTo(&u)
	s := svd.Values(nil)

	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		si := math.Sqrt(math.Max(s[i], 0))
		for j := 0; j < n; j++ {
			b.Set(i, j, si*u.At(j, i))
		}
	}

	var qr mat.QR
	qr.Factorize(b)
	var r mat.Dense
	qr.RTo(&r)

	l := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			l.Set(i, j, r.At(j, i))
		}
	}
	return l, nil
}
