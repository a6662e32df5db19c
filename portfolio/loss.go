package portfolio

import (
	"fmt"
	"math"

	"github.com/banachtech/climate-pce/pce"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LossModel aggregates per-firm weighted PCE coefficients into the
// portfolio-level eps vector of second-order PCE loss coefficients and
// simulates portfolio losses from it. The multi-index table and the per-firm
// weight tensors l1^m1, l2^m2 are precomputed at construction.
type LossModel struct {
	order, nFirms, nSim, nQuad int
	params                     Params
	idx                        pce.MultiIndex
	l1m1, l2m2                 [][]float64 // [multi-index entry][firm]
}

// Option configures a LossModel.
type Option func(*LossModel)

// WithQuadPoints overrides the Gauss-Hermite resolution used by Moments.
func WithQuadPoints(n int) Option {
	return func(m *LossModel) { m.nQuad = n }
}

// NewLossModel builds a loss model for the given PCE order, firm count and
// Monte-Carlo sample count.
func NewLossModel(order, nFirms, nSim int, p Params, opts ...Option) (*LossModel, error) {
	if order < 0 {
		return nil, fmt.Errorf("portfolio: order must be non-negative, got %d", order)
	}
	if nFirms < 1 || nSim < 1 {
		return nil, fmt.Errorf("portfolio: need at least one firm and one sample, got %d firms, %d samples", nFirms, nSim)
	}
	if err := p.Validate(nFirms); err != nil {
		return nil, err
	}
	m := &LossModel{
		order:  order,
		nFirms: nFirms,
		nSim:   nSim,
		nQuad:  pce.DefaultQuadPoints,
		params: p,
		idx:    pce.NewMultiIndex(order),
	}
	for _, opt := range opts {
		opt(m)
	}

	nEps := m.idx.Len()
	m.l1m1 = make([][]float64, nEps)
	m.l2m2 = make([][]float64, nEps)
	for e := 0; e < nEps; e++ {
		m.l1m1[e] = make([]float64, nFirms)
		m.l2m2[e] = make([]float64, nFirms)
		for k := 0; k < nFirms; k++ {
			m.l1m1[e][k] = math.Pow(p.L1[k], float64(m.idx.M1[e]))
			m.l2m2[e][k] = math.Pow(p.L2[k], float64(m.idx.M2[e]))
		}
	}
	return m, nil
}

// NEps returns the length of the eps vector, (order+1)(order+2)/2.
func (m *LossModel) NEps() int {
	return m.idx.Len()
}

// Moments returns the Gaussian-moment-matching approximation of the eps
// vector's mean and covariance. The per-order moments of the systemic factor
// come from the quadrature engine applied to (StdA, MeanA); firms are then
// weighted by Lambda, the multi-index binomial coefficients and the l1/l2
// power tensors (Lambda squared and both orientations of the tensors for the
// covariance).
func (m *LossModel) Moments() (*mat.VecDense, *mat.SymDense, error) {
	meanA, covA, err := pce.MeanCovQuad(m.params.StdA, m.params.MeanA, m.order, m.nQuad)
	if err != nil {
		return nil, nil, err
	}

	nEps := m.idx.Len()
	mean := mat.NewVecDense(nEps, nil)
	for e := 0; e < nEps; e++ {
		deg := m.idx.M1[e] + m.idx.M2[e]
		var sum float64
		for k := 0; k < m.nFirms; k++ {
			sum += m.params.Lambda[k] * meanA.At(deg, k) * m.l1m1[e][k] * m.l2m2[e][k]
		}
		mean.SetVec(e, m.idx.Comb[e]*sum)
	}

	cov := mat.NewSymDense(nEps, nil)
	for e := 0; e < nEps; e++ {
		degE := m.idx.M1[e] + m.idx.M2[e]
		for f := e; f < nEps; f++ {
			degF := m.idx.M1[f] + m.idx.M2[f]
			var sum float64
			for k := 0; k < m.nFirms; k++ {
				lam := m.params.Lambda[k]
				sum += lam * lam * covA[k].At(degE, degF) *
					m.l1m1[e][k] * m.l2m2[e][k] * m.l1m1[f][k] * m.l2m2[f][k]
			}
			cov.SetSym(e, f, m.idx.Comb[e]*m.idx.Comb[f]*sum)
		}
	}
	return mean, cov, nil
}

// EpsFull simulates the eps vector without the Gaussian-moment approximation:
// the systemic loading is drawn per firm and sample from MeanA + StdA*Z, the
// coefficient function is evaluated at each total degree, and contributions
// are summed across firms. The result has one eps vector per column.
func (m *LossModel) EpsFull(rng *rand.Rand) *mat.Dense {
	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rng}
	nEps := m.idx.Len()
	eps := mat.NewDense(nEps, m.nSim, nil)
	tau := make([]float64, m.order+1)
	for k := 0; k < m.nFirms; k++ {
		lam := m.params.Lambda[k]
		for j := 0; j < m.nSim; j++ {
			ak := m.params.MeanA[k] + m.params.StdA[k]*d.Rand()
			for deg := 0; deg <= m.order; deg++ {
				tau[deg] = pce.Coef(deg, ak)
			}
			for e := 0; e < nEps; e++ {
				deg := m.idx.M1[e] + m.idx.M2[e]
				eps.Set(e, j, eps.At(e, j)+lam*m.idx.Comb[e]*tau[deg]*m.l1m1[e][k]*m.l2m2[e][k])
			}
		}
	}
	return eps
}

// LossFull simulates losses from the full, non-Gaussian eps vector.
func (m *LossModel) LossFull(rng *rand.Rand) []float64 {
	eps := m.EpsFull(rng)
	return m.reduce(eps, m.hermiteFactors(rng))
}

// Loss simulates losses via the moment-matched path: eps vectors are drawn
// from the Gaussian with the Moments mean and covariance, then reduced
// against freshly drawn Hermite-product factors.
func (m *LossModel) Loss(rng *rand.Rand) ([]float64, error) {
	mean, cov, err := m.Moments()
	if err != nil {
		return nil, err
	}
	eps := SampleGaussian(mean, cov, m.nSim, rng)
	return m.reduce(eps, m.hermiteFactors(rng)), nil
}

// hermiteFactors draws the He_{m1}(Z1)*He_{m2}(Z2) factors, one independent
// pair of standard normals per multi-index entry and sample.
func (m *LossModel) hermiteFactors(rng *rand.Rand) *mat.Dense {
	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rng}
	nEps := m.idx.Len()
	he := mat.NewDense(nEps, m.nSim, nil)
	for e := 0; e < nEps; e++ {
		for j := 0; j < m.nSim; j++ {
			he.Set(e, j, pce.HermiteNorm(m.idx.M1[e], d.Rand())*pce.HermiteNorm(m.idx.M2[e], d.Rand()))
		}
	}
	return he
}

// reduce contracts eps columns against the Hermite factors: per sample the
// loss is the sum over multi-index entries of eps * he.
func (m *LossModel) reduce(eps, he *mat.Dense) []float64 {
	nEps := m.idx.Len()
	loss := make([]float64, m.nSim)
	for j := 0; j < m.nSim; j++ {
		var sum float64
		for e := 0; e < nEps; e++ {
			sum += eps.At(e, j) * he.At(e, j)
		}
		loss[j] = sum
	}
	return loss
}
