package cpu

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// PadMode selects the fill rule for Pad.
type PadMode int

// Supported pad modes.
const (
	PadConstant PadMode = iota // zero fill
	PadReplicate
)

// Pad extends a tensor by (before, after) amounts per dimension.
// len(pads) must equal the rank; entries may be zero. PadConstant fills
// with zeros, PadReplicate repeats the border value.
func (b *Backend) Pad(x *tensor.RawTensor, pads [][2]int, mode PadMode) *tensor.RawTensor {
	rank := x.Rank()
	if len(pads) != rank {
		panic(fmt.Sprintf("pad: got %d pad pairs for rank-%d tensor", len(pads), rank))
	}
	outShape := make(tensor.Shape, rank)
	padded := false
	for i, dim := range x.Shape() {
		if pads[i][0] < 0 || pads[i][1] < 0 {
			panic(fmt.Sprintf("pad: negative padding %v at dim %d", pads[i], i))
		}
		if pads[i][0] != 0 || pads[i][1] != 0 {
			padded = true
		}
		outShape[i] = dim + pads[i][0] + pads[i][1]
	}
	if !padded {
		return x
	}

	result := b.alloc(outShape, x.DType())
	elemSize := x.DType().Size()
	srcShape := x.Shape()
	srcStrides := x.Strides()
	src, dst := x.Data(), result.Data()

	idx := make([]int, rank)
	total := outShape.NumElements()
	for flat := 0; flat < total; flat++ {
		srcOff := 0
		inside := true
		for i := 0; i < rank; i++ {
			si := idx[i] - pads[i][0]
			if si < 0 || si >= srcShape[i] {
				if mode == PadConstant {
					inside = false
					break
				}
				// replicate: clamp to the border
				if si < 0 {
					si = 0
				} else {
					si = srcShape[i] - 1
				}
			}
			srcOff += si * srcStrides[i]
		}
		if inside {
			copy(dst[flat*elemSize:(flat+1)*elemSize], src[srcOff*elemSize:(srcOff+1)*elemSize])
		}

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
