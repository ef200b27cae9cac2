package nn

import (
	"errors"
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// ErrSynchronizedNotSupported is returned by Moments when a cross-device
// synchronized reduction is requested; this backend cannot provide one.
var ErrSynchronizedNotSupported = errors.New("argument synchronized=true is not supported with the cpu backend")

// Largest finite magnitude representable in IEEE binary16.
const float16Max = 65504.0

// Moments computes the mean and biased variance of x over a set of axes.
// The variance uses E[x²] − E[x]², a one-pass form that trades a little
// numerical stability for speed. Half-precision input is computed in
// single precision and clamped back into the binary16 range, since its
// dynamic range is too limited for statistics. The reduced axes are
// squeezed away unless keepDims is set.
func Moments(x *tensor.RawTensor, axes []int, keepDims, synchronized bool) (mean, variance *tensor.RawTensor, err error) {
	if synchronized {
		return nil, nil, ErrSynchronizedNotSupported
	}
	if err := requireTensor(x, "x"); err != nil {
		return nil, nil, err
	}
	if len(axes) == 0 {
		return nil, nil, fmt.Errorf("argument axes must name at least one reduction axis")
	}

	dims := make([]int, len(axes))
	seen := make(map[int]bool, len(axes))
	for i, ax := range axes {
		dim, err := x.Shape().NormalizeAxis(ax)
		if err != nil {
			return nil, nil, err
		}
		if seen[dim] {
			return nil, nil, fmt.Errorf("argument axes contains duplicate axis %d", ax)
		}
		seen[dim] = true
		dims[i] = dim
	}

	needCast := x.DType() == tensor.Float16
	if needCast {
		x = backend.Cast(x, tensor.Float32)
	}

	mean = backend.MeanDims(x, dims, true)
	variance = backend.Sub(backend.MeanDims(backend.Square(x), dims, true), backend.Square(mean))

	if !keepDims {
		mean = backend.Squeeze(mean, dims)
		variance = backend.Squeeze(variance, dims)
	}
	if needCast {
		// Clamp before narrowing so values past the binary16 range
		// saturate instead of overflowing to inf.
		mean = backend.Cast(backend.Clamp(mean, -float16Max, float16Max), tensor.Float16)
		variance = backend.Cast(backend.Clamp(variance, -float16Max, float16Max), tensor.Float16)
	}
	return mean, variance, nil
}
