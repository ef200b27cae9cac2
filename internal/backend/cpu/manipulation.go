package cpu

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// Reshape returns a view of x under a new shape.
func (b *Backend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	out, err := x.WithShape(shape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return out
}

// Permute reorders the dimensions of x according to axes.
func (b *Backend) Permute(x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	rank := x.Rank()
	if len(axes) != rank {
		panic(fmt.Sprintf("permute: got %d axes for rank-%d tensor", len(axes), rank))
	}
	seen := make([]bool, rank)
	perm := make([]int, rank)
	outShape := make(tensor.Shape, rank)
	for i, ax := range axes {
		if ax < 0 {
			ax += rank
		}
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("permute: invalid axes %v for rank %d", axes, rank))
		}
		seen[ax] = true
		perm[i] = ax
		outShape[i] = x.Shape()[ax]
	}

	result := b.alloc(outShape, x.DType())
	elemSize := x.DType().Size()
	srcStrides := x.Strides()
	outStrides := outShape.ComputeStrides()
	src, dst := x.Data(), result.Data()

	idx := make([]int, rank)
	total := x.NumElements()
	for flat := 0; flat < total; flat++ {
		// idx is the coordinate in the output tensor.
		srcOff := 0
		for i := 0; i < rank; i++ {
			srcOff += idx[i] * srcStrides[perm[i]]
		}
		dstOff := 0
		for i := 0; i < rank; i++ {
			dstOff += idx[i] * outStrides[i]
		}
		copy(dst[dstOff*elemSize:(dstOff+1)*elemSize], src[srcOff*elemSize:(srcOff+1)*elemSize])

		for i := rank - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < outShape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return result
}

// Unsqueeze inserts a size-1 dimension at dim.
func (b *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	rank := x.Rank()
	if dim < 0 {
		dim += rank + 1
	}
	if dim < 0 || dim > rank {
		panic(fmt.Sprintf("unsqueeze: dim %d out of range for shape %v", dim, x.Shape()))
	}
	outShape := make(tensor.Shape, 0, rank+1)
	outShape = append(outShape, x.Shape()[:dim]...)
	outShape = append(outShape, 1)
	outShape = append(outShape, x.Shape()[dim:]...)
	return b.Reshape(x, outShape)
}

// Squeeze removes the given size-1 dimensions.
func (b *Backend) Squeeze(x *tensor.RawTensor, dims []int) *tensor.RawTensor {
	drop := make(map[int]bool, len(dims))
	for _, d := range dims {
		if d < 0 {
			d += x.Rank()
		}
		if d < 0 || d >= x.Rank() {
			panic(fmt.Sprintf("squeeze: dim %d out of range for shape %v", d, x.Shape()))
		}
		if x.Shape()[d] != 1 {
			panic(fmt.Sprintf("squeeze: dim %d has size %d, expected 1", d, x.Shape()[d]))
		}
		drop[d] = true
	}
	outShape := make(tensor.Shape, 0, x.Rank())
	for i, dim := range x.Shape() {
		if !drop[i] {
			outShape = append(outShape, dim)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}
	return b.Reshape(x, outShape)
}

// Expand broadcasts x to a larger shape. Singleton dimensions repeat;
// other dimensions must match.
func (b *Backend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	rank := len(shape)
	if x.Rank() > rank {
		panic(fmt.Sprintf("expand: cannot expand shape %v to %v", x.Shape(), shape))
	}
	// Left-pad the source shape to the target rank.
	srcShape := make(tensor.Shape, rank)
	for i := range srcShape {
		srcShape[i] = 1
	}
	copy(srcShape[rank-x.Rank():], x.Shape())
	for i := range shape {
		if srcShape[i] != shape[i] && srcShape[i] != 1 {
			panic(fmt.Sprintf("expand: cannot expand shape %v to %v", x.Shape(), shape))
		}
	}

	result := b.alloc(shape, x.DType())
	elemSize := x.DType().Size()
	srcStrides := srcShape.ComputeStrides()
	src, dst := x.Data(), result.Data()

	idx := make([]int, rank)
	total := shape.NumElements()
	for flat := 0; flat < total; flat++ {
		srcOff := 0
		for i := 0; i < rank; i++ {
			if srcShape[i] != 1 {
				srcOff += idx[i] * srcStrides[i]
			}
		}
		copy(dst[flat*elemSize:(flat+1)*elemSize], src[srcOff*elemSize:(srcOff+1)*elemSize])

		for i := rank - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return result
}

// Where selects x where condition holds and y elsewhere. All three
// tensors must share a shape; condition must be bool.
func (b *Backend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(fmt.Sprintf("where: condition dtype is %s, expected bool", condition.DType()))
	}
	if !condition.Shape().Equal(x.Shape()) || !x.Shape().Equal(y.Shape()) {
		panic(fmt.Sprintf("where: shape mismatch cond=%v x=%v y=%v",
			condition.Shape(), x.Shape(), y.Shape()))
	}
	result := b.alloc(x.Shape(), x.DType())
	cond := condition.AsBool()
	elemSize := x.DType().Size()
	xd, yd, dst := x.Data(), y.Data(), result.Data()
	for i, c := range cond {
		off := i * elemSize
		if c {
			copy(dst[off:off+elemSize], xd[off:off+elemSize])
		} else {
			copy(dst[off:off+elemSize], yd[off:off+elemSize])
		}
	}
	return result
}
