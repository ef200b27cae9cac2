package nn

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// OneHot encodes integer class indices into indicator vectors of length
// numClasses along the requested output axis (-1 for last). Negative
// indices encode to all-zero rows rather than erroring: the engine's
// primitive rejects them, so they are clamped to zero for the engine
// call and the affected rows are zeroed afterwards with a masked select.
// Indices at or above numClasses are an error.
func OneHot(x *tensor.RawTensor, numClasses, axis int, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if err := requireTensor(x, "x"); err != nil {
		return nil, err
	}
	if numClasses <= 0 {
		return nil, fmt.Errorf("num_classes must be positive, got %d", numClasses)
	}
	x = backend.Cast(x, tensor.Int64)
	for _, idx := range x.AsInt64() {
		if idx >= int64(numClasses) {
			return nil, fmt.Errorf(
				"index %d is out of bounds for num_classes=%d", idx, numClasses)
		}
	}

	output := backend.OneHot(backend.MaximumScalar(x, 0), numClasses)
	nonNegative := backend.Expand(
		backend.Unsqueeze(backend.GreaterEqualScalar(x, 0), -1), output.Shape())
	zeros := tensor.Zeros(output.Shape(), output.DType(), output.Device())
	output = backend.Where(nonNegative, output, zeros)
	output = backend.Cast(output, dtype)

	dims := output.Rank()
	if axis != -1 && axis != dims {
		normalized := axis
		if normalized < 0 {
			normalized += dims
		}
		if normalized < 0 || normalized >= dims {
			return nil, fmt.Errorf("axis %d out of range for output rank %d", axis, dims)
		}
		// Move the new class axis from the end to its position and shift
		// the displaced axes left by one to stay contiguous.
		order := make([]int, dims)
		for i := range order {
			order[i] = i
		}
		order[normalized] = dims - 1
		for ax := normalized + 1; ax < dims; ax++ {
			order[ax] = ax - 1
		}
		output = backend.Permute(output, order)
	}
	return output, nil
}

// MultiHot encodes a batch of index sets into multi-label indicator
// vectors: the one-hot expansion reduced by maximum over the sample
// dimension (axis 1 for batched input, axis 0 otherwise). The reduction
// runs on the float32 expansion and the result is cast afterwards; for
// an indicator tensor the ordering preserves every value, and the
// engine's max reduction is float-only.
func MultiHot(x *tensor.RawTensor, numClasses, axis int, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if err := requireTensor(x, "x"); err != nil {
		return nil, err
	}
	reductionAxis := 0
	if x.Rank() > 1 {
		reductionAxis = 1
	}
	output, err := OneHot(backend.Cast(x, tensor.Int32), numClasses, axis, tensor.Float32)
	if err != nil {
		return nil, err
	}
	return backend.Cast(backend.AmaxDim(output, reductionAxis, false), dtype), nil
}
