package cpu

import (
	"fmt"
	"math"
	"sort"

	"github.com/colbybanbury/keras/internal/tensor"
)

// SumDim sums along one dimension.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.reduceDim(x, dim, keepDim, "sum_dim", func(acc, v float64) float64 { return acc + v }, 0)
}

// AmaxDim takes the maximum along one dimension.
func (b *Backend) AmaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.reduceDim(x, dim, keepDim, "amax_dim", math.Max, math.Inf(-1))
}

func (b *Backend) reduceDim(x *tensor.RawTensor, dim int, keepDim bool, name string, fold func(acc, v float64) float64, init float64) *tensor.RawTensor {
	if dim < 0 || dim >= x.Rank() {
		panic(fmt.Sprintf("%s: dim %d out of range for shape %v", name, dim, x.Shape()))
	}
	outShape := reducedShape(x.Shape(), []int{dim}, keepDim)
	result := b.alloc(outShape, x.DType())
	outer, n, inner := laneDims(x.Shape(), dim)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				acc := init
				base := o*n*inner + in
				for i := 0; i < n; i++ {
					acc = fold(acc, float64(src[base+i*inner]))
				}
				dst[o*inner+in] = float32(acc)
			}
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				acc := init
				base := o*n*inner + in
				for i := 0; i < n; i++ {
					acc = fold(acc, src[base+i*inner])
				}
				dst[o*inner+in] = acc
			}
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}
	return result
}

// MeanDims averages over a set of dimensions at once.
func (b *Backend) MeanDims(x *tensor.RawTensor, dims []int, keepDim bool) *tensor.RawTensor {
	if len(dims) == 0 {
		panic("mean_dims: no reduction dims given")
	}
	sorted := append([]int(nil), dims...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	// Reduce highest dim first so the remaining indices stay valid,
	// keeping every dim until the end so the caller sees one squeeze.
	count := 1
	out := x
	for _, d := range sorted {
		if d < 0 || d >= x.Rank() {
			panic(fmt.Sprintf("mean_dims: dim %d out of range for shape %v", d, x.Shape()))
		}
		count *= x.Shape()[d]
		out = b.SumDim(out, d, true)
	}
	out = b.MulScalar(out, 1/float64(count))
	if !keepDim {
		out = b.Squeeze(out, dims)
	}
	return out
}

func reducedShape(shape tensor.Shape, dims []int, keepDim bool) tensor.Shape {
	drop := make(map[int]bool, len(dims))
	for _, d := range dims {
		drop[d] = true
	}
	out := make(tensor.Shape, 0, len(shape))
	for i, dim := range shape {
		switch {
		case !drop[i]:
			out = append(out, dim)
		case keepDim:
			out = append(out, 1)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}
