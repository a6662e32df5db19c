package portfolio

import (
	"errors"
	"fmt"
	"math"
)

// Params holds the per-firm inputs of the loss model. All slices must have
// one entry per firm.
type Params struct {
	// L1 and L2 are the normalized loss-given-default and exposure-at-default
	// bases raised to the multi-index powers by the model.
	L1, L2 []float64
	// MeanA and StdA are the conditional mean and standard deviation of the
	// systemic factor loading.
	MeanA, StdA []float64
	// Lambda is the per-firm portfolio weight.
	Lambda []float64
}

// Validate checks that every parameter slice has exactly nFirms entries.
func (p Params) Validate(nFirms int) error {
	for _, f := range []struct {
		name string
		n    int
	}{
		{"L1", len(p.L1)},
		{"L2", len(p.L2)},
		{"MeanA", len(p.MeanA)},
		{"StdA", len(p.StdA)},
		{"Lambda", len(p.Lambda)},
	} {
		if f.n != nFirms {
			return fmt.Errorf("portfolio: %s has length %d, want %d", f.name, f.n, nFirms)
		}
	}
	return nil
}

// ErrInvalidOption is returned when an enumerated option receives an
// unsupported value.
var ErrInvalidOption = errors.New("portfolio: invalid option")

// LambdaLGDEAD computes the per-firm portfolio weights
// Lambda = LGD * EAD for the given obligor indices. Option 1 is the
// homogeneous portfolio 1/sqrt(idx); option 2 is ceil(5*idx/nFirms)^2. Any
// other option is rejected with ErrInvalidOption.
func LambdaLGDEAD(idx []int, nFirms, opt int) ([]float64, error) {
	out := make([]float64, len(idx))
	switch opt {
	case 1:
		for i, v := range idx {
			out[i] = 1.0 / math.Sqrt(float64(v))
		}
	case 2:
		for i, v := range idx {
			c := math.Ceil(5.0 * float64(v) / float64(nFirms))
			out[i] = c * c
		}
	default:
		return nil, fmt.Errorf("%w: weight mode %d", ErrInvalidOption, opt)
	}
	return out, nil
}
