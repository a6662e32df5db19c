package pce

// MultiIndex enumerates the second-order PCE terms up to a given order as
// three parallel slices: the pair (M1[i], M2[i]) and the binomial coefficient
// C(M1[i]+M2[i], M1[i]). Ordering is lexicographic by total degree then M1,
// and the length is (order+1)(order+2)/2.
type MultiIndex struct {
	M1, M2 []int
	Comb   []float64
}

// NewMultiIndex builds the multi-index table for the given PCE order.
func NewMultiIndex(order int) MultiIndex {
	n := (order + 1) * (order + 2) / 2
	idx := MultiIndex{
		M1:   make([]int, 0, n),
		M2:   make([]int, 0, n),
		Comb: make([]float64, 0, n),
	}
	for m := 0; m <= order; m++ {
		for m1 := 0; m1 <= m; m1++ {
			idx.M1 = append(idx.M1, m1)
			idx.M2 = append(idx.M2, m-m1)
			idx.Comb = append(idx.Comb, binomial(m, m1))
		}
	}
	return idx
}

// Len returns the number of multi-index entries.
func (idx MultiIndex) Len() int {
	return len(idx.M1)
}

func binomial(n, k int) float64 {
	if k > n-k {
		k = n - k
	}
	c := 1.0
	for i := 0; i < k; i++ {
		c = c * float64(n-i) / float64(i+1)
	}
	return c
}
