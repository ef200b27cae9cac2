package tensor

import "fmt"

// Zeros allocates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType, device Device) *RawTensor {
	t, err := NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return t
}

// FromFloat32 builds a CPU float32 tensor from a slice. The data is copied.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := NewRaw(shape, Float32, CPU)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromFloat64 builds a CPU float64 tensor from a slice. The data is copied.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := NewRaw(shape, Float64, CPU)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat64(), data)
	return t, nil
}

// FromInt32 builds a CPU int32 tensor from a slice. The data is copied.
func FromInt32(data []int32, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := NewRaw(shape, Int32, CPU)
	if err != nil {
		return nil, err
	}
	copy(t.AsInt32(), data)
	return t, nil
}

// FromInt64 builds a CPU int64 tensor from a slice. The data is copied.
func FromInt64(data []int64, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := NewRaw(shape, Int64, CPU)
	if err != nil {
		return nil, err
	}
	copy(t.AsInt64(), data)
	return t, nil
}
