package cpu

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// OneHot encodes an int64 index tensor into float32 indicator vectors
// appended as a new last axis of length numClasses. Negative or
// out-of-range indices are rejected; callers that want lenient handling
// must clamp first.
func (b *Backend) OneHot(x *tensor.RawTensor, numClasses int) *tensor.RawTensor {
	if x.DType() != tensor.Int64 {
		panic(fmt.Sprintf("one_hot: index dtype is %s, expected int64", x.DType()))
	}
	if numClasses <= 0 {
		panic(fmt.Sprintf("one_hot: num_classes must be positive, got %d", numClasses))
	}
	outShape := append(x.Shape().Clone(), numClasses)
	result := b.alloc(outShape, tensor.Float32)
	src, dst := x.AsInt64(), result.AsFloat32()
	for i, idx := range src {
		if idx < 0 || idx >= int64(numClasses) {
			panic(fmt.Sprintf("one_hot: index %d out of range [0, %d)", idx, numClasses))
		}
		dst[i*numClasses+int(idx)] = 1
	}
	return result
}
