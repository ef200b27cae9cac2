package cpu

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// ConvTransposeOpts carries the per-dimension transposed-convolution
// parameters. Padding removes cells from both ends of each output
// dimension; OutputPadding adds cells on the high end only.
type ConvTransposeOpts struct {
	Strides       []int
	Padding       []int
	OutputPadding []int
	Dilation      []int
}

// ConvTranspose1D performs transposed convolution over one spatial
// dimension. Input is [N, C_in, L], kernel is [C_in, C_out, K].
func (b *Backend) ConvTranspose1D(input, kernel *tensor.RawTensor, opts ConvTransposeOpts) *tensor.RawTensor {
	return b.convTransposeND(input, kernel, opts, 1)
}

// ConvTranspose2D performs transposed convolution over two spatial
// dimensions. Input is [N, C_in, H, W], kernel is [C_in, C_out, KH, KW].
func (b *Backend) ConvTranspose2D(input, kernel *tensor.RawTensor, opts ConvTransposeOpts) *tensor.RawTensor {
	return b.convTransposeND(input, kernel, opts, 2)
}

// ConvTranspose3D performs transposed convolution over three spatial
// dimensions. Input is [N, C_in, D, H, W], kernel is [C_in, C_out, KD, KH, KW].
func (b *Backend) ConvTranspose3D(input, kernel *tensor.RawTensor, opts ConvTransposeOpts) *tensor.RawTensor {
	return b.convTransposeND(input, kernel, opts, 3)
}

// convTransposeND scatters each input cell through the kernel into the
// output: out[o*s - p + k*d] += in[o] * kern[k]. Output length per dim is
// (L-1)*s - 2*p + d*(K-1) + 1 + output_padding.
func (b *Backend) convTransposeND(input, kernel *tensor.RawTensor, opts ConvTransposeOpts, spatialDims int) *tensor.RawTensor {
	inShape, kShape := input.Shape(), kernel.Shape()
	if len(inShape) != spatialDims+2 {
		panic(fmt.Sprintf("conv_transpose%dd: input must be rank %d, got shape %v", spatialDims, spatialDims+2, inShape))
	}
	if len(kShape) != spatialDims+2 {
		panic(fmt.Sprintf("conv_transpose%dd: kernel must be rank %d, got shape %v", spatialDims, spatialDims+2, kShape))
	}
	batch, cIn := inShape[0], inShape[1]
	if kShape[0] != cIn {
		panic(fmt.Sprintf("conv_transpose%dd: kernel expects %d input channels, input has %d", spatialDims, kShape[0], cIn))
	}
	cOut := kShape[1]

	inSpatial := inShape[2:]
	kSpatial := kShape[2:]
	outSpatial := make([]int, spatialDims)
	for i := 0; i < spatialDims; i++ {
		outSpatial[i] = (inSpatial[i]-1)*opts.Strides[i] - 2*opts.Padding[i] +
			opts.Dilation[i]*(kSpatial[i]-1) + 1 + opts.OutputPadding[i]
		if outSpatial[i] <= 0 {
			panic(fmt.Sprintf("conv_transpose%dd: non-positive output length %d at spatial dim %d",
				spatialDims, outSpatial[i], i))
		}
	}

	outShape := append(tensor.Shape{batch, cOut}, outSpatial...)
	output := b.alloc(outShape, input.DType())

	switch input.DType() {
	case tensor.Float32:
		convTransposeScatter(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(),
			batch, cIn, cOut, inSpatial, kSpatial, outSpatial, opts)
	case tensor.Float64:
		convTransposeScatter(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(),
			batch, cIn, cOut, inSpatial, kSpatial, outSpatial, opts)
	default:
		panic(fmt.Sprintf("conv_transpose%dd: unsupported dtype %s (only float32/float64 supported)",
			spatialDims, input.DType()))
	}
	return output
}

func convTransposeScatter[T float32 | float64](out, in, kern []T, batch, cIn, cOut int,
	inSpatial, kSpatial, outSpatial []int, opts ConvTransposeOpts) {
	nd := len(inSpatial)
	prodIn := prod(inSpatial)
	prodK := prod(kSpatial)
	prodOut := prod(outSpatial)

	outStrides := make([]int, nd)
	s := 1
	for i := nd - 1; i >= 0; i-- {
		outStrides[i] = s
		s *= outSpatial[i]
	}

	iIdx := make([]int, nd)
	for iFlat := 0; iFlat < prodIn; iFlat++ {
		kIdx := make([]int, nd)
		for kFlat := 0; kFlat < prodK; kFlat++ {
			dstOff := 0
			inside := true
			for i := 0; i < nd; i++ {
				oi := iIdx[i]*opts.Strides[i] - opts.Padding[i] + kIdx[i]*opts.Dilation[i]
				if oi < 0 || oi >= outSpatial[i] {
					inside = false
					break
				}
				dstOff += oi * outStrides[i]
			}
			if inside {
				for n := 0; n < batch; n++ {
					for ci := 0; ci < cIn; ci++ {
						v := in[(n*cIn+ci)*prodIn+iFlat]
						if v == 0 {
							continue
						}
						for co := 0; co < cOut; co++ {
							out[(n*cOut+co)*prodOut+dstOff] += v * kern[(ci*cOut+co)*prodK+kFlat]
						}
					}
				}
			}

			for i := nd - 1; i >= 0; i-- {
				kIdx[i]++
				if kIdx[i] < kSpatial[i] {
					break
				}
				kIdx[i] = 0
			}
		}

		for i := nd - 1; i >= 0; i-- {
			iIdx[i]++
			if iIdx[i] < inSpatial[i] {
				break
			}
			iIdx[i] = 0
		}
	}
}
