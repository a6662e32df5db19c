package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestEigCovX(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	const n = 6
	eig, err := EigCovX(n, 0.2, 1.0, 1.0, rng)
	require.NoError(t, err)
	require.Len(t, eig, n)
	// The systemic covariance is a Hadamard product of PSD matrices, so its
	// spectrum is non-negative and the SVD returns it in descending order.
	for i := range eig {
		require.GreaterOrEqual(t, eig[i], -1e-12)
		if i > 0 {
			require.LessOrEqual(t, eig[i], eig[i-1])
		}
	}

	_, err = EigCovX(0, 0.2, 1.0, 1.0, rng)
	require.Error(t, err)
}

func TestComputeInertia(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	points, err := ComputeInertia([]int{4, 8}, 30, 0.2, 1.0, 1.0, rng)
	require.NoError(t, err)
	require.Len(t, points, 2)
	for _, pt := range points {
		require.Greater(t, pt.OneFactor, 0.0)
		require.LessOrEqual(t, pt.OneFactor, pt.TwoFactor)
		require.LessOrEqual(t, pt.TwoFactor, 1.0+1e-9)
		require.GreaterOrEqual(t, pt.OneFactorErr, 0.0)
		require.GreaterOrEqual(t, pt.TwoFactorErr, 0.0)
	}
}

func TestComputeInertiaArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	_, err := ComputeInertia([]int{1}, 10, 0.2, 1.0, 1.0, rng)
	require.Error(t, err)
	_, err = ComputeInertia([]int{4}, 0, 0.2, 1.0, 1.0, rng)
	require.Error(t, err)
}
