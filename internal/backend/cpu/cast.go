package cpu

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/colbybanbury/keras/internal/tensor"
)

// Cast converts a tensor to another element type. Float16 is stored as
// IEEE binary16 and converted through float32.
func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x
	}
	vals := readAsFloat64(x)
	result := b.alloc(x.Shape(), dtype)
	writeFromFloat64(result, vals)
	return result
}

func readAsFloat64(x *tensor.RawTensor) []float64 {
	n := x.NumElements()
	vals := make([]float64, n)
	switch x.DType() {
	case tensor.Float16:
		for i, v := range x.AsFloat16() {
			vals[i] = float64(v.Float32())
		}
	case tensor.Float32:
		for i, v := range x.AsFloat32() {
			vals[i] = float64(v)
		}
	case tensor.Float64:
		copy(vals, x.AsFloat64())
	case tensor.Int32:
		for i, v := range x.AsInt32() {
			vals[i] = float64(v)
		}
	case tensor.Int64:
		for i, v := range x.AsInt64() {
			vals[i] = float64(v)
		}
	case tensor.Uint8:
		for i, v := range x.AsUint8() {
			vals[i] = float64(v)
		}
	case tensor.Bool:
		for i, v := range x.AsBool() {
			if v {
				vals[i] = 1
			}
		}
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}
	return vals
}

func writeFromFloat64(dst *tensor.RawTensor, vals []float64) {
	switch dst.DType() {
	case tensor.Float16:
		out := dst.AsFloat16()
		for i, v := range vals {
			out[i] = float16.Fromfloat32(float32(v))
		}
	case tensor.Float32:
		out := dst.AsFloat32()
		for i, v := range vals {
			out[i] = float32(v)
		}
	case tensor.Float64:
		copy(dst.AsFloat64(), vals)
	case tensor.Int32:
		out := dst.AsInt32()
		for i, v := range vals {
			out[i] = int32(v)
		}
	case tensor.Int64:
		out := dst.AsInt64()
		for i, v := range vals {
			out[i] = int64(v)
		}
	case tensor.Uint8:
		out := dst.AsUint8()
		for i, v := range vals {
			out[i] = uint8(v)
		}
	case tensor.Bool:
		out := dst.AsBool()
		for i, v := range vals {
			out[i] = v != 0
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dst.DType()))
	}
}
