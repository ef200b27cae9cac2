package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/colbybanbury/keras/internal/tensor"
)

// ConvOpts carries the per-dimension convolution parameters. Padding is
// symmetric (the same amount on both sides of each spatial dimension);
// asymmetric padding must be applied to the input beforehand.
type ConvOpts struct {
	Strides  []int
	Padding  []int
	Dilation []int
	Groups   int
}

// Conv1D performs grouped dilated convolution over one spatial dimension.
// Input is [N, C_in, L], kernel is [C_out, C_in/groups, K].
func (b *Backend) Conv1D(input, kernel *tensor.RawTensor, opts ConvOpts) *tensor.RawTensor {
	return b.convND(input, kernel, opts, 1)
}

// Conv2D performs grouped dilated convolution over two spatial dimensions.
// Input is [N, C_in, H, W], kernel is [C_out, C_in/groups, KH, KW].
func (b *Backend) Conv2D(input, kernel *tensor.RawTensor, opts ConvOpts) *tensor.RawTensor {
	return b.convND(input, kernel, opts, 2)
}

// Conv3D performs grouped dilated convolution over three spatial dimensions.
// Input is [N, C_in, D, H, W], kernel is [C_out, C_in/groups, KD, KH, KW].
func (b *Backend) Conv3D(input, kernel *tensor.RawTensor, opts ConvOpts) *tensor.RawTensor {
	return b.convND(input, kernel, opts, 3)
}

// convND lowers the convolution to a matrix product per (batch, group):
// an im2col buffer of shape [C_g*prod(K), prod(O)] multiplied by the
// group's kernel slice [O_g, C_g*prod(K)].
func (b *Backend) convND(input, kernel *tensor.RawTensor, opts ConvOpts, spatialDims int) *tensor.RawTensor {
	inShape, kShape := input.Shape(), kernel.Shape()
	if len(inShape) != spatialDims+2 {
		panic(fmt.Sprintf("conv%dd: input must be rank %d, got shape %v", spatialDims, spatialDims+2, inShape))
	}
	if len(kShape) != spatialDims+2 {
		panic(fmt.Sprintf("conv%dd: kernel must be rank %d, got shape %v", spatialDims, spatialDims+2, kShape))
	}
	if len(opts.Strides) != spatialDims || len(opts.Padding) != spatialDims || len(opts.Dilation) != spatialDims {
		panic(fmt.Sprintf("conv%dd: strides/padding/dilation must have %d entries", spatialDims, spatialDims))
	}
	groups := opts.Groups
	if groups < 1 {
		groups = 1
	}

	batch, cIn := inShape[0], inShape[1]
	cOut, cKern := kShape[0], kShape[1]
	if cIn != cKern*groups {
		panic(fmt.Sprintf("conv%dd: input channels %d incompatible with kernel channels %d and groups %d",
			spatialDims, cIn, cKern, groups))
	}
	if cOut%groups != 0 {
		panic(fmt.Sprintf("conv%dd: output channels %d not divisible by groups %d", spatialDims, cOut, groups))
	}

	inSpatial := inShape[2:]
	kSpatial := kShape[2:]
	outSpatial := make([]int, spatialDims)
	for i := 0; i < spatialDims; i++ {
		span := opts.Dilation[i]*(kSpatial[i]-1) + 1
		outSpatial[i] = (inSpatial[i]+2*opts.Padding[i]-span)/opts.Strides[i] + 1
		if outSpatial[i] <= 0 {
			panic(fmt.Sprintf("conv%dd: non-positive output length %d at spatial dim %d", spatialDims, outSpatial[i], i))
		}
	}

	outShape := append(tensor.Shape{batch, cOut}, outSpatial...)
	output := b.alloc(outShape, input.DType())

	geo := convGeometry{
		spatialDims: spatialDims,
		inSpatial:   inSpatial,
		kSpatial:    kSpatial,
		outSpatial:  outSpatial,
		strides:     opts.Strides,
		padding:     opts.Padding,
		dilation:    opts.Dilation,
	}

	switch input.DType() {
	case tensor.Float32:
		convFloat32(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), batch, cIn, cOut, groups, geo)
	case tensor.Float64:
		convFloat64(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(), batch, cIn, cOut, groups, geo)
	default:
		panic(fmt.Sprintf("conv%dd: unsupported dtype %s (only float32/float64 supported)", spatialDims, input.DType()))
	}
	return output
}

type convGeometry struct {
	spatialDims int
	inSpatial   []int
	kSpatial    []int
	outSpatial  []int
	strides     []int
	padding     []int
	dilation    []int
}

func (g convGeometry) prodIn() int  { return prod(g.inSpatial) }
func (g convGeometry) prodK() int   { return prod(g.kSpatial) }
func (g convGeometry) prodOut() int { return prod(g.outSpatial) }

func prod(xs []int) int {
	p := 1
	for _, x := range xs {
		p *= x
	}
	return p
}

// im2col writes one (batch, group) slab into col, laid out
// [cg*prod(K), prod(O)] row-major. fetch reads a single input element by
// flat spatial offset for a given channel, returning 0 outside the input.
func im2col[T float32 | float64](col []T, in []T, cg int, geo convGeometry) {
	nd := geo.spatialDims
	prodK := geo.prodK()
	prodOut := geo.prodOut()
	inStrides := make([]int, nd)
	s := 1
	for i := nd - 1; i >= 0; i-- {
		inStrides[i] = s
		s *= geo.inSpatial[i]
	}
	prodIn := geo.prodIn()

	kIdx := make([]int, nd)
	for kFlat := 0; kFlat < prodK; kFlat++ {
		oIdx := make([]int, nd)
		for oFlat := 0; oFlat < prodOut; oFlat++ {
			srcOff := 0
			inside := true
			for i := 0; i < nd; i++ {
				si := oIdx[i]*geo.strides[i] - geo.padding[i] + kIdx[i]*geo.dilation[i]
				if si < 0 || si >= geo.inSpatial[i] {
					inside = false
					break
				}
				srcOff += si * inStrides[i]
			}
			for c := 0; c < cg; c++ {
				row := c*prodK + kFlat
				var v T
				if inside {
					v = in[c*prodIn+srcOff]
				}
				col[row*prodOut+oFlat] = v
			}

			for i := nd - 1; i >= 0; i-- {
				oIdx[i]++
				if oIdx[i] < geo.outSpatial[i] {
					break
				}
				oIdx[i] = 0
			}
		}

		for i := nd - 1; i >= 0; i-- {
			kIdx[i]++
			if kIdx[i] < geo.kSpatial[i] {
				break
			}
			kIdx[i] = 0
		}
	}
}

func convFloat32(out, in, kern []float32, batch, cIn, cOut, groups int, geo convGeometry) {
	cg := cIn / groups
	og := cOut / groups
	rows := cg * geo.prodK()
	cols := geo.prodOut()
	prodIn := geo.prodIn()
	col := make([]float32, rows*cols)

	for n := 0; n < batch; n++ {
		for g := 0; g < groups; g++ {
			im2col(col, in[(n*cIn+g*cg)*prodIn:(n*cIn+(g+1)*cg)*prodIn], cg, geo)
			a := blas32.General{Rows: og, Cols: rows, Stride: rows, Data: kern[g*og*rows : (g+1)*og*rows]}
			bm := blas32.General{Rows: rows, Cols: cols, Stride: cols, Data: col}
			c := blas32.General{Rows: og, Cols: cols, Stride: cols, Data: out[(n*cOut+g*og)*cols : (n*cOut+(g+1)*og)*cols]}
			blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, a, bm, 0, c)
		}
	}
}

func convFloat64(out, in, kern []float64, batch, cIn, cOut, groups int, geo convGeometry) {
	cg := cIn / groups
	og := cOut / groups
	rows := cg * geo.prodK()
	cols := geo.prodOut()
	prodIn := geo.prodIn()
	col := make([]float64, rows*cols)

	for n := 0; n < batch; n++ {
		for g := 0; g < groups; g++ {
			im2col(col, in[(n*cIn+g*cg)*prodIn:(n*cIn+(g+1)*cg)*prodIn], cg, geo)
			a := blas64.General{Rows: og, Cols: rows, Stride: rows, Data: kern[g*og*rows : (g+1)*og*rows]}
			bm := blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: col}
			c := blas64.General{Rows: og, Cols: cols, Stride: cols, Data: out[(n*cOut+g*og)*cols : (n*cOut+(g+1)*og)*cols]}
			blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, a, bm, 0, c)
		}
	}
}
