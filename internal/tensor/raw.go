package tensor

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// Device tags where a tensor lives. Meta tensors carry shape and dtype
// only; they are produced while tracing shapes and hold no storage.
type Device int

// Supported devices.
const (
	CPU Device = iota
	Meta
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case Meta:
		return "meta"
	default:
		return "unknown"
	}
}

// RawTensor is the engine's tensor representation: a flat row-major
// buffer plus shape, stride, dtype and device metadata. The adaptation
// layer never owns tensor memory, it only builds new RawTensors through
// the engine.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-initialized tensor. Meta tensors allocate no
// storage.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	var data []byte
	if device != Meta {
		data = make([]byte, shape.NumElements()*dtype.Size())
	}
	return &RawTensor{
		data:   data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's row-major strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's element type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's device tag.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total element count.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// Data returns the raw byte buffer. Nil for meta tensors.
func (r *RawTensor) Data() []byte {
	return r.data
}

func (r *RawTensor) checkView(want DataType) {
	if r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	if r.device == Meta {
		panic("meta tensor has no storage")
	}
}

// AsFloat32 views the buffer as []float32. Panics on dtype mismatch or
// meta device.
func (r *RawTensor) AsFloat32() []float32 {
	r.checkView(Float32)
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat64 views the buffer as []float64.
func (r *RawTensor) AsFloat64() []float64 {
	r.checkView(Float64)
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat16 views the buffer as IEEE binary16 values.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	r.checkView(Float16)
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsInt32 views the buffer as []int32.
func (r *RawTensor) AsInt32() []int32 {
	r.checkView(Int32)
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsInt64 views the buffer as []int64.
func (r *RawTensor) AsInt64() []int64 {
	r.checkView(Int64)
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsUint8 views the buffer as []uint8.
func (r *RawTensor) AsUint8() []uint8 {
	r.checkView(Uint8)
	return r.data
}

// AsBool views the buffer as []bool.
func (r *RawTensor) AsBool() []bool {
	r.checkView(Bool)
	return unsafe.Slice((*bool)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// ToDevice returns a tensor tagged with the given device. The buffer, if
// any, is shared; this only moves the tag (the CPU engine has a single
// address space and meta is storage-free).
func (r *RawTensor) ToDevice(device Device) *RawTensor {
	if device == r.device {
		return r
	}
	return &RawTensor{
		data:   r.data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: device,
	}
}

// WithShape returns a view of the same buffer under a new shape. The
// element counts must match.
func (r *RawTensor) WithShape(shape Shape) (*RawTensor, error) {
	if shape.NumElements() != r.NumElements() {
		return nil, fmt.Errorf("cannot view shape %v as %v: element counts differ", r.shape, shape)
	}
	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  r.dtype,
		device: r.device,
	}, nil
}
