package cpu

import (
	"fmt"
	"math"

	"github.com/colbybanbury/keras/internal/tensor"
)

// Reduction selects how a loss primitive folds its per-element results.
// The native default is ReductionSum; callers that need per-element
// output must ask for ReductionNone explicitly.
type Reduction int

// Supported reductions.
const (
	ReductionSum Reduction = iota
	ReductionMean
	ReductionNone
)

// BinaryCrossEntropy computes -(t*log(o) + (1-t)*log(1-o)) from
// probabilities. Output values must already be inside (0, 1).
func (b *Backend) BinaryCrossEntropy(output, target *tensor.RawTensor, reduction Reduction) *tensor.RawTensor {
	perElem := b.binaryOp(output, target, "binary_cross_entropy", func(o, t float64) float64 {
		return -(t*math.Log(o) + (1-t)*math.Log(1-o))
	})
	return b.reduceLoss(perElem, reduction)
}

// BinaryCrossEntropyWithLogits computes the same loss from raw scores
// using the overflow-safe formulation max(x,0) - x*t + log(1+exp(-|x|)).
func (b *Backend) BinaryCrossEntropyWithLogits(output, target *tensor.RawTensor, reduction Reduction) *tensor.RawTensor {
	perElem := b.binaryOp(output, target, "binary_cross_entropy_with_logits", func(x, t float64) float64 {
		return math.Max(x, 0) - x*t + math.Log1p(math.Exp(-math.Abs(x)))
	})
	return b.reduceLoss(perElem, reduction)
}

func (b *Backend) reduceLoss(perElem *tensor.RawTensor, reduction Reduction) *tensor.RawTensor {
	switch reduction {
	case ReductionNone:
		return perElem
	case ReductionSum, ReductionMean:
		n := perElem.NumElements()
		result := b.alloc(tensor.Shape{1}, perElem.DType())
		var sum float64
		switch perElem.DType() {
		case tensor.Float32:
			for _, v := range perElem.AsFloat32() {
				sum += float64(v)
			}
		case tensor.Float64:
			for _, v := range perElem.AsFloat64() {
				sum += v
			}
		}
		if reduction == ReductionMean {
			sum /= float64(n)
		}
		switch perElem.DType() {
		case tensor.Float32:
			result.AsFloat32()[0] = float32(sum)
		case tensor.Float64:
			result.AsFloat64()[0] = sum
		}
		return result
	default:
		panic(fmt.Sprintf("unknown reduction %d", reduction))
	}
}
