package cpu

import (
	"fmt"
	"math"

	"github.com/colbybanbury/keras/internal/tensor"
)

// unaryOp applies a scalar function elementwise. Only floating dtypes are
// accepted; integer inputs must be cast first.
func (b *Backend) unaryOp(x *tensor.RawTensor, name string, f func(float64) float64) *tensor.RawTensor {
	result := b.alloc(x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		src := x.AsFloat32()
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(f(float64(v)))
		}
	case tensor.Float64:
		src := x.AsFloat64()
		dst := result.AsFloat64()
		for i, v := range src {
			dst[i] = f(v)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}
	return result
}

// binaryOp applies a scalar function pairwise. Shapes must match exactly;
// broadcasting is resolved by the caller with Expand.
func (b *Backend) binaryOp(x, y *tensor.RawTensor, name string, f func(a, b float64) float64) *tensor.RawTensor {
	if !x.Shape().Equal(y.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", name, x.Shape(), y.Shape()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, x.DType(), y.DType()))
	}
	result := b.alloc(x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		xs, ys, dst := x.AsFloat32(), y.AsFloat32(), result.AsFloat32()
		for i := range xs {
			dst[i] = float32(f(float64(xs[i]), float64(ys[i])))
		}
	case tensor.Float64:
		xs, ys, dst := x.AsFloat64(), y.AsFloat64(), result.AsFloat64()
		for i := range xs {
			dst[i] = f(xs[i], ys[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}
	return result
}

// Mul performs elementwise multiplication.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "mul", func(a, c float64) float64 { return a * c })
}

// Sub performs elementwise subtraction.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "sub", func(a, c float64) float64 { return a - c })
}

// Div performs elementwise division.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "div", func(a, c float64) float64 { return a / c })
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return b.unaryOp(x, "mul_scalar", func(v float64) float64 { return v * s })
}

// Neg negates every element.
func (b *Backend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "neg", func(v float64) float64 { return -v })
}

// Log computes the elementwise natural logarithm.
func (b *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "log", math.Log)
}

// Square computes the elementwise square.
func (b *Backend) Square(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "square", func(v float64) float64 { return v * v })
}

// Clamp limits every element into [lo, hi].
func (b *Backend) Clamp(x *tensor.RawTensor, lo, hi float64) *tensor.RawTensor {
	return b.unaryOp(x, "clamp", func(v float64) float64 {
		return math.Min(math.Max(v, lo), hi)
	})
}

// MaximumScalar computes elementwise max(x, s). Integer dtypes are
// supported because index tensors need clamping before one-hot.
func (b *Backend) MaximumScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	switch x.DType() {
	case tensor.Int32:
		result := b.alloc(x.Shape(), x.DType())
		src, dst := x.AsInt32(), result.AsInt32()
		si := int32(s)
		for i, v := range src {
			if v > si {
				dst[i] = v
			} else {
				dst[i] = si
			}
		}
		return result
	case tensor.Int64:
		result := b.alloc(x.Shape(), x.DType())
		src, dst := x.AsInt64(), result.AsInt64()
		si := int64(s)
		for i, v := range src {
			if v > si {
				dst[i] = v
			} else {
				dst[i] = si
			}
		}
		return result
	default:
		return b.unaryOp(x, "maximum_scalar", func(v float64) float64 { return math.Max(v, s) })
	}
}

// GreaterEqualScalar compares every element against a scalar and returns
// a bool tensor.
func (b *Backend) GreaterEqualScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	result := b.alloc(x.Shape(), tensor.Bool)
	dst := result.AsBool()
	switch x.DType() {
	case tensor.Float32:
		for i, v := range x.AsFloat32() {
			dst[i] = float64(v) >= s
		}
	case tensor.Float64:
		for i, v := range x.AsFloat64() {
			dst[i] = v >= s
		}
	case tensor.Int32:
		for i, v := range x.AsInt32() {
			dst[i] = float64(v) >= s
		}
	case tensor.Int64:
		for i, v := range x.AsInt64() {
			dst[i] = float64(v) >= s
		}
	default:
		panic(fmt.Sprintf("greater_equal_scalar: unsupported dtype %s", x.DType()))
	}
	return result
}
