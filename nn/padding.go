package nn

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/backend/cpu"
	"github.com/colbybanbury/keras/internal/tensor"
)

// computePaddingLength returns the (left, right) padding along one
// dimension such that the output length under "same" padding equals
// ceil(input/stride). An odd total is split right-biased.
func computePaddingLength(inputLength, kernelLength, stride, dilationRate int) [2]int {
	total := dilationRate*(kernelLength-1) - (inputLength-1)%stride
	if total < 0 {
		total = 0
	}
	return [2]int{total / 2, (total + 1) / 2}
}

// applySamePadding prepares an input tensor for a "same"-padded spatial
// op. When every dimension pads symmetrically the tensor is returned
// untouched together with the per-dimension amounts, ready for the
// engine's native padding parameter; this avoids materializing a padded
// copy. Otherwise the tensor is padded explicitly (replicate borders for
// pooling, zero fill for convolution) and zero amounts are returned.
// inputs must already be channels-first.
func applySamePadding(inputs *tensor.RawTensor, kernelSize, strides []int, operationType string, dilationRate []int) (*tensor.RawTensor, []int, error) {
	spatialShape := inputs.Shape()[2:]
	numSpatialDims := len(spatialShape)

	mode := cpu.PadConstant
	padding := make([][2]int, numSpatialDims)
	for i := 0; i < numSpatialDims; i++ {
		if operationType == opPooling {
			padding[i] = computePaddingLength(spatialShape[i], kernelSize[i], strides[i], 1)
			mode = cpu.PadReplicate
		} else {
			dilation, err := standardizeTuple(dilationRate, numSpatialDims, "dilation_rate")
			if err != nil {
				return nil, nil, err
			}
			padding[i] = computePaddingLength(spatialShape[i], kernelSize[i], strides[i], dilation[i])
		}
	}

	symmetric := true
	for _, pair := range padding {
		if pair[0] != pair[1] {
			symmetric = false
			break
		}
	}
	if symmetric {
		lefts := make([]int, numSpatialDims)
		for i, pair := range padding {
			lefts[i] = pair[0]
		}
		return inputs, lefts, nil
	}

	fullPads := make([][2]int, inputs.Rank())
	copy(fullPads[2:], padding)
	padded := backend.Pad(inputs, fullPads, mode)
	return padded, make([]int, numSpatialDims), nil
}

// validateSpatialRank checks that a spatial-op input is 1D, 2D or 3D
// (rank 3-5 including batch and channels).
func validateSpatialRank(inputs *tensor.RawTensor, opName string) error {
	if r := inputs.Rank(); r < 3 || r > 5 {
		return fmt.Errorf(
			"inputs to %s operation should have rank=3, 4 or 5, corresponding to 1D, 2D and 3D inputs; received input shape: %v",
			opName, inputs.Shape())
	}
	return nil
}
