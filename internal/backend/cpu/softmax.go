package cpu

import (
	"fmt"
	"math"

	"github.com/colbybanbury/keras/internal/tensor"
)

// laneDims splits a shape around a reduction dimension into
// (outer, n, inner) loop bounds for lane-wise traversal.
func laneDims(shape tensor.Shape, dim int) (outer, n, inner int) {
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[dim], inner
}

// Softmax normalizes along dim with the usual max-shift for stability.
func (b *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.softmaxImpl(x, dim, false)
}

// LogSoftmax computes log(softmax(x)) along dim without materializing the
// intermediate probabilities.
func (b *Backend) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.softmaxImpl(x, dim, true)
}

func (b *Backend) softmaxImpl(x *tensor.RawTensor, dim int, logOutput bool) *tensor.RawTensor {
	if dim < 0 || dim >= x.Rank() {
		panic(fmt.Sprintf("softmax: dim %d out of range for shape %v", dim, x.Shape()))
	}
	result := b.alloc(x.Shape(), x.DType())
	outer, n, inner := laneDims(x.Shape(), dim)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		lane := make([]float64, n)
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				base := o*n*inner + in
				for i := 0; i < n; i++ {
					lane[i] = float64(src[base+i*inner])
				}
				softmaxLane(lane, logOutput)
				for i := 0; i < n; i++ {
					dst[base+i*inner] = float32(lane[i])
				}
			}
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		lane := make([]float64, n)
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				base := o*n*inner + in
				for i := 0; i < n; i++ {
					lane[i] = src[base+i*inner]
				}
				softmaxLane(lane, logOutput)
				for i := 0; i < n; i++ {
					dst[base+i*inner] = lane[i]
				}
			}
		}
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

func softmaxLane(lane []float64, logOutput bool) {
	maxVal := math.Inf(-1)
	for _, v := range lane {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	for _, v := range lane {
		sum += math.Exp(v - maxVal)
	}
	if logOutput {
		logSum := math.Log(sum)
		for i, v := range lane {
			lane[i] = v - maxVal - logSum
		}
		return
	}
	for i, v := range lane {
		lane[i] = math.Exp(v-maxVal) / sum
	}
}
