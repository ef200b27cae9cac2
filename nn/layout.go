package nn

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// transposeSpatialInputs permutes a channels-last tensor to the
// channels-first layout the engine's spatial primitives require.
func transposeSpatialInputs(inputs *tensor.RawTensor) (*tensor.RawTensor, error) {
	switch inputs.Rank() - 2 {
	case 1:
		return backend.Permute(inputs, []int{0, 2, 1}), nil
	case 2:
		return backend.Permute(inputs, []int{0, 3, 1, 2}), nil
	case 3:
		return backend.Permute(inputs, []int{0, 4, 1, 2, 3}), nil
	default:
		return nil, fmt.Errorf(
			"inputs must have rank=3, 4 or 5, corresponding to 1D, 2D and 3D inputs; received input shape: %v",
			inputs.Shape())
	}
}

// transposeSpatialOutputs undoes transposeSpatialInputs.
func transposeSpatialOutputs(outputs *tensor.RawTensor) *tensor.RawTensor {
	switch outputs.Rank() - 2 {
	case 1:
		return backend.Permute(outputs, []int{0, 2, 1})
	case 2:
		return backend.Permute(outputs, []int{0, 2, 3, 1})
	case 3:
		return backend.Permute(outputs, []int{0, 2, 3, 4, 1})
	default:
		return outputs
	}
}

// transposeConvKernel permutes a convolution kernel from the library's
// (*spatial, in_channels, out_channels) layout to the engine's
// (out_channels, in_channels, *spatial) layout. Transposed-convolution
// kernels store their channel axes swapped, so the same permutation
// yields the (in_channels, out_channels, *spatial) layout the engine's
// transposed primitives expect.
func transposeConvKernel(kernel *tensor.RawTensor) (*tensor.RawTensor, error) {
	switch kernel.Rank() - 2 {
	case 1:
		return backend.Permute(kernel, []int{2, 1, 0}), nil
	case 2:
		return backend.Permute(kernel, []int{3, 2, 0, 1}), nil
	case 3:
		return backend.Permute(kernel, []int{4, 3, 0, 1, 2}), nil
	default:
		return nil, fmt.Errorf(
			"kernel must have rank=3, 4 or 5, corresponding to 1D, 2D and 3D convolutions; received kernel shape: %v",
			kernel.Shape())
	}
}
