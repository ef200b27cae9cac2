package nn

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/backend/cpu"
	"github.com/colbybanbury/keras/internal/config"
	"github.com/colbybanbury/keras/internal/tensor"
)

// CategoricalCrossentropy computes -sum(target * log(prob), axis) for
// probability-distribution targets. With fromLogits the log-probabilities
// come from a log-softmax over axis; otherwise output is renormalized to
// sum to 1 along axis and clamped away from 0 and 1 before the log.
func CategoricalCrossentropy(target, output *tensor.RawTensor, fromLogits bool, axis int) (*tensor.RawTensor, error) {
	if err := requireTensor(target, "target"); err != nil {
		return nil, err
	}
	if err := requireTensor(output, "output"); err != nil {
		return nil, err
	}
	if !target.Shape().Equal(output.Shape()) {
		return nil, fmt.Errorf(
			"arguments target and output must have the same shape; received: target.shape=%v, output.shape=%v",
			target.Shape(), output.Shape())
	}
	if target.Rank() < 1 {
		return nil, fmt.Errorf(
			"arguments target and output must be at least rank 1; received: target.shape=%v, output.shape=%v",
			target.Shape(), output.Shape())
	}
	dim, err := output.Shape().NormalizeAxis(axis)
	if err != nil {
		return nil, err
	}

	logProb := logProbabilities(output, fromLogits, dim)
	target = backend.Cast(target, output.DType())
	return backend.Neg(backend.SumDim(backend.Mul(target, logProb), dim, false)), nil
}

// SparseCategoricalCrossentropy is CategoricalCrossentropy for integer
// class-index targets. A trailing singleton target dimension is squeezed
// when it matches output's rank; the indices are then expanded one-hot at
// output's class count and reduced the same way.
func SparseCategoricalCrossentropy(target, output *tensor.RawTensor, fromLogits bool, axis int) (*tensor.RawTensor, error) {
	if err := requireTensor(target, "target"); err != nil {
		return nil, err
	}
	if err := requireTensor(output, "output"); err != nil {
		return nil, err
	}
	target = backend.Cast(target, tensor.Int64)

	if target.Rank() == output.Rank() && target.Shape()[target.Rank()-1] == 1 {
		target = backend.Squeeze(target, []int{-1})
	}
	if output.Rank() < 1 {
		return nil, fmt.Errorf("argument output must be at least rank 1; received: output.shape=%v", output.Shape())
	}
	if !target.Shape().Equal(output.Shape()[:output.Rank()-1]) {
		return nil, fmt.Errorf(
			"arguments target and output must have the same shape up until the last dimension: target.shape=%v, output.shape=%v",
			target.Shape(), output.Shape())
	}
	dim, err := output.Shape().NormalizeAxis(axis)
	if err != nil {
		return nil, err
	}

	logProb := logProbabilities(output, fromLogits, dim)
	oneHotTarget, err := OneHot(target, output.Shape()[dim], axis, output.DType())
	if err != nil {
		return nil, err
	}
	return backend.Neg(backend.SumDim(backend.Mul(oneHotTarget, logProb), dim, false)), nil
}

// BinaryCrossentropy computes the per-element binary cross-entropy. The
// engine's native primitives fold their result to a sum by default, so
// the unreduced variant is requested explicitly to honor the
// per-element output contract.
func BinaryCrossentropy(target, output *tensor.RawTensor, fromLogits bool) (*tensor.RawTensor, error) {
	if err := requireTensor(target, "target"); err != nil {
		return nil, err
	}
	if err := requireTensor(output, "output"); err != nil {
		return nil, err
	}
	if !target.Shape().Equal(output.Shape()) {
		return nil, fmt.Errorf(
			"arguments target and output must have the same shape; received: target.shape=%v, output.shape=%v",
			target.Shape(), output.Shape())
	}
	target = backend.Cast(target, output.DType())

	if fromLogits {
		return backend.BinaryCrossEntropyWithLogits(output, target, cpu.ReductionNone), nil
	}
	eps := config.Epsilon()
	output = backend.Clamp(output, eps, 1-eps)
	return backend.BinaryCrossEntropy(output, target, cpu.ReductionNone), nil
}

// logProbabilities computes log-probabilities along dim, either straight
// from logits or by renormalizing and clamping a probability tensor.
func logProbabilities(output *tensor.RawTensor, fromLogits bool, dim int) *tensor.RawTensor {
	if fromLogits {
		return backend.LogSoftmax(output, dim)
	}
	sum := backend.SumDim(output, dim, true)
	output = backend.Div(output, backend.Expand(sum, output.Shape()))
	eps := config.Epsilon()
	output = backend.Clamp(output, eps, 1-eps)
	return backend.Log(output)
}
