package pce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeanMatchesQuadrature(t *testing.T) {
	a := []float64{0.6, 1.0, 1.4}
	b := []float64{-0.5, 0.2, 0.9}
	const order = 6

	mean, err := Mean(order, a, b)
	require.NoError(t, err)
	meanQ, _, err := MeanCovQuad(a, b, order, 60)
	require.NoError(t, err)

	for i := 0; i <= order; i++ {
		for k := range a {
			require.InDelta(t, mean.At(i, k), meanQ.At(i, k), 1e-8,
				"order %d, entry %d", i, k)
		}
	}
}

func TestCovMatchesQuadrature(t *testing.T) {
	a := []float64{0.6, 1.0, 1.4}
	b := []float64{-0.5, 0.2, 0.9}
	const order = 3

	cov, err := Cov(order, a, b)
	require.NoError(t, err)
	_, covQ, err := MeanCovQuad(a, b, order, 60)
	require.NoError(t, err)

	for k := range a {
		for i := 0; i <= order; i++ {
			for j := 0; j <= order; j++ {
				require.InDelta(t, covQ[k].At(i, j), cov[k].At(i, j), 1e-5,
					"entry %d, orders (%d, %d)", k, i, j)
			}
		}
	}
}

func TestCovQuadOrderOneVariance(t *testing.T) {
	// The first-order coefficient is the normal density, whose variance has
	// the closed form E[phi(aX+b)^2] - E[phi(aX+b)]^2 with
	// E[phi(aX+b)] = phi(b/sqrt(1+a^2))/sqrt(1+a^2) and
	// E[phi(aX+b)^2] = exp(-b^2/(1+2a^2)) / (2 pi sqrt(1+2a^2)).
	a, b := 0.6, -0.5
	m1 := stdNorm.Prob(b/math.Sqrt(1.0+a*a)) / math.Sqrt(1.0+a*a)
	m2 := math.Exp(-b*b/(1.0+2.0*a*a)) / (2.0 * math.Pi * math.Sqrt(1.0+2.0*a*a))
	want := m2 - m1*m1

	_, cov, err := MeanCovQuad([]float64{a}, []float64{b}, 3, 60)
	require.NoError(t, err)
	require.InDelta(t, want, cov[0].At(1, 1), 1e-8)

	// Entries mixing order one with other orders must not vanish either.
	for _, e := range [][2]int{{0, 1}, {1, 2}} {
		require.Greater(t, math.Abs(cov[0].At(e[0], e[1])), 1e-6,
			"cov entry (%d, %d)", e[0], e[1])
	}
}

func TestCovSymmetric(t *testing.T) {
	cov, err := Cov(4, []float64{0.8}, []float64{0.3})
	require.NoError(t, err)
	for i := 0; i <= 4; i++ {
		for j := 0; j <= 4; j++ {
			require.Equal(t, cov[0].At(i, j), cov[0].At(j, i))
		}
	}
}

func TestMeanCovQuadDefaultResolution(t *testing.T) {
	a := []float64{0.7}
	b := []float64{0.1}
	meanDefault, covDefault, err := MeanCovQuad(a, b, 2, 0)
	require.NoError(t, err)
	mean40, cov40, err := MeanCovQuad(a, b, 2, 40)
	require.NoError(t, err)
	for i := 0; i <= 2; i++ {
		require.Equal(t, mean40.At(i, 0), meanDefault.At(i, 0))
		for j := 0; j <= 2; j++ {
			require.Equal(t, cov40[0].At(i, j), covDefault[0].At(i, j))
		}
	}
}

func TestShapeMismatch(t *testing.T) {
	a := []float64{0.5, 0.6, 0.7}
	b := []float64{0.1, 0.2}
	type testCases struct {
		name string
		run  func() error
	}
	for _, test := range []testCases{
		{name: "mean", run: func() error { _, err := Mean(2, a, b); return err }},
		{name: "cov", run: func() error { _, err := Cov(2, a, b); return err }},
		{name: "quad", run: func() error { _, _, err := MeanCovQuad(a, b, 2, 40); return err }},
	} {
		t.Run(test.name, func(t *testing.T) {
			err := test.run()
			require.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestCovZeroStd(t *testing.T) {
	_, err := Cov(2, []float64{0.5, 0.0}, []float64{0.1, 0.2})
	require.ErrorIs(t, err, ErrZeroStd)
}

func TestBiNormCDF(t *testing.T) {
	// At the origin the bivariate CDF has the closed form
	// 1/4 + asin(rho)/(2 pi).
	origin := func(rho float64) float64 { return 0.25 + math.Asin(rho)/(2.0*math.Pi) }
	type testCases struct {
		name   string
		h, k   float64
		rho    float64
		want   float64
		within float64
	}
	for _, test := range []testCases{
		{name: "independent", h: 0.5, k: -0.3, rho: 0, want: stdNorm.CDF(0.5) * stdNorm.CDF(-0.3), within: 1e-14},
		{name: "half correlation origin", h: 0, k: 0, rho: 0.5, want: origin(0.5), within: 1e-10},
		{name: "strong correlation origin", h: 0, k: 0, rho: 0.95, want: origin(0.95), within: 1e-8},
		{name: "negative correlation origin", h: 0, k: 0, rho: -0.5, want: origin(-0.5), within: 1e-10},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := biNormCDF(test.h, test.k, test.rho)
			require.NoError(t, err)
			require.InDelta(t, test.want, got, test.within)
		})
	}
}
