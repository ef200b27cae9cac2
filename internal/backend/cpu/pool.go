package cpu

import (
	"fmt"
	"math"

	"github.com/colbybanbury/keras/internal/tensor"
)

// PoolOpts carries the per-dimension pooling parameters. Padding is
// symmetric per dimension, matching what the native kernels accept.
type PoolOpts struct {
	KernelSize []int
	Strides    []int
	Padding    []int
	// CountIncludePad controls whether padded cells enter the averaging
	// denominator. Ignored by max pooling.
	CountIncludePad bool
}

// MaxPool1D pools over one spatial dimension of a [N, C, L] tensor.
func (b *Backend) MaxPool1D(input *tensor.RawTensor, opts PoolOpts) *tensor.RawTensor {
	return b.poolND(input, opts, 1, true)
}

// MaxPool2D pools over two spatial dimensions of a [N, C, H, W] tensor.
func (b *Backend) MaxPool2D(input *tensor.RawTensor, opts PoolOpts) *tensor.RawTensor {
	return b.poolND(input, opts, 2, true)
}

// MaxPool3D pools over three spatial dimensions of a [N, C, D, H, W] tensor.
func (b *Backend) MaxPool3D(input *tensor.RawTensor, opts PoolOpts) *tensor.RawTensor {
	return b.poolND(input, opts, 3, true)
}

// AvgPool1D averages over one spatial dimension of a [N, C, L] tensor.
func (b *Backend) AvgPool1D(input *tensor.RawTensor, opts PoolOpts) *tensor.RawTensor {
	return b.poolND(input, opts, 1, false)
}

// AvgPool2D averages over two spatial dimensions of a [N, C, H, W] tensor.
func (b *Backend) AvgPool2D(input *tensor.RawTensor, opts PoolOpts) *tensor.RawTensor {
	return b.poolND(input, opts, 2, false)
}

// AvgPool3D averages over three spatial dimensions of a [N, C, D, H, W] tensor.
func (b *Backend) AvgPool3D(input *tensor.RawTensor, opts PoolOpts) *tensor.RawTensor {
	return b.poolND(input, opts, 3, false)
}

func (b *Backend) poolND(input *tensor.RawTensor, opts PoolOpts, spatialDims int, isMax bool) *tensor.RawTensor {
	if input.Device() == tensor.Meta {
		// The pooling kernels walk real storage; shape-only tensors must
		// be materialized by the caller first.
		panic("pool: meta tensors have no storage; materialize the input before pooling")
	}
	inShape := input.Shape()
	if len(inShape) != spatialDims+2 {
		panic(fmt.Sprintf("pool%dd: input must be rank %d, got shape %v", spatialDims, spatialDims+2, inShape))
	}
	if len(opts.KernelSize) != spatialDims || len(opts.Strides) != spatialDims || len(opts.Padding) != spatialDims {
		panic(fmt.Sprintf("pool%dd: kernel/strides/padding must have %d entries", spatialDims, spatialDims))
	}
	for i, p := range opts.Padding {
		if p > opts.KernelSize[i]/2 {
			panic(fmt.Sprintf("pool%dd: padding %d at dim %d exceeds half the kernel size %d",
				spatialDims, p, i, opts.KernelSize[i]))
		}
	}

	batch, channels := inShape[0], inShape[1]
	inSpatial := inShape[2:]
	outSpatial := make([]int, spatialDims)
	for i := 0; i < spatialDims; i++ {
		outSpatial[i] = (inSpatial[i]+2*opts.Padding[i]-opts.KernelSize[i])/opts.Strides[i] + 1
		if outSpatial[i] <= 0 {
			panic(fmt.Sprintf("pool%dd: non-positive output length %d at spatial dim %d", spatialDims, outSpatial[i], i))
		}
	}

	outShape := append(tensor.Shape{batch, channels}, outSpatial...)
	output := b.alloc(outShape, input.DType())

	switch input.DType() {
	case tensor.Float32:
		poolPlanes(output.AsFloat32(), input.AsFloat32(), batch*channels, inSpatial, outSpatial, opts, isMax)
	case tensor.Float64:
		poolPlanes(output.AsFloat64(), input.AsFloat64(), batch*channels, inSpatial, outSpatial, opts, isMax)
	default:
		panic(fmt.Sprintf("pool%dd: unsupported dtype %s (only float32/float64 supported)", spatialDims, input.DType()))
	}
	return output
}

// poolPlanes pools every [N*C] spatial plane independently.
func poolPlanes[T float32 | float64](out, in []T, planes int, inSpatial, outSpatial []int, opts PoolOpts, isMax bool) {
	nd := len(inSpatial)
	prodIn := prod(inSpatial)
	prodOut := prod(outSpatial)
	prodK := prod(opts.KernelSize)

	inStrides := make([]int, nd)
	s := 1
	for i := nd - 1; i >= 0; i-- {
		inStrides[i] = s
		s *= inSpatial[i]
	}

	for p := 0; p < planes; p++ {
		src := in[p*prodIn : (p+1)*prodIn]
		dst := out[p*prodOut : (p+1)*prodOut]

		oIdx := make([]int, nd)
		for oFlat := 0; oFlat < prodOut; oFlat++ {
			maxVal := math.Inf(-1)
			var sum float64
			valid := 0

			kIdx := make([]int, nd)
			for kFlat := 0; kFlat < prodK; kFlat++ {
				srcOff := 0
				inside := true
				for i := 0; i < nd; i++ {
					si := oIdx[i]*opts.Strides[i] - opts.Padding[i] + kIdx[i]
					if si < 0 || si >= inSpatial[i] {
						inside = false
						break
					}
					srcOff += si * inStrides[i]
				}
				if inside {
					v := float64(src[srcOff])
					if v > maxVal {
						maxVal = v
					}
					sum += v
					valid++
				}

				for i := nd - 1; i >= 0; i-- {
					kIdx[i]++
					if kIdx[i] < opts.KernelSize[i] {
						break
					}
					kIdx[i] = 0
				}
			}

			if isMax {
				dst[oFlat] = T(maxVal)
			} else {
				count := valid
				if opts.CountIncludePad {
					count = prodK
				}
				dst[oFlat] = T(sum / float64(count))
			}

			for i := nd - 1; i >= 0; i-- {
				oIdx[i]++
				if oIdx[i] < outSpatial[i] {
					break
				}
				oIdx[i] = 0
			}
		}
	}
}
