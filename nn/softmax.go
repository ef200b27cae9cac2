package nn

import (
	"github.com/colbybanbury/keras/internal/tensor"
)

// Softmax normalizes exponentials along an axis. AxisAll normalizes over
// the flattened tensor: the engine's 1-D primitive is applied to a flat
// view and the original shape restored, because its own axis handling
// only ever covers a single dimension.
func Softmax(x *tensor.RawTensor, axis int) (*tensor.RawTensor, error) {
	return softmaxImpl(x, axis, backend.Softmax)
}

// LogSoftmax computes log(softmax(x)) along an axis, with the same
// AxisAll convention as Softmax.
func LogSoftmax(x *tensor.RawTensor, axis int) (*tensor.RawTensor, error) {
	return softmaxImpl(x, axis, backend.LogSoftmax)
}

func softmaxImpl(x *tensor.RawTensor, axis int, op func(*tensor.RawTensor, int) *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := requireTensor(x, "x"); err != nil {
		return nil, err
	}
	if axis == AxisAll {
		flat := backend.Reshape(x, tensor.Shape{x.NumElements()})
		out := op(flat, 0)
		return backend.Reshape(out, x.Shape()), nil
	}
	dim, err := x.Shape().NormalizeAxis(axis)
	if err != nil {
		return nil, err
	}
	return op(x, dim), nil
}
