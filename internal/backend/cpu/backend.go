// Package cpu implements the native tensor-computation engine this
// library adapts to. The op surface keeps the engine's own conventions:
// every spatial primitive is channels-first and rank-specific (1D/2D/3D),
// padding parameters are symmetric per-dimension integers, and reductions
// that have a native default keep it. The adaptation layer in package nn
// is responsible for reconciling the public contract with these
// conventions.
package cpu

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/tensor"
)

// Backend executes tensor primitives on the host CPU.
type Backend struct {
	device tensor.Device
}

// New creates a CPU backend.
func New() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "cpu"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return b.device
}

// alloc creates an output tensor or panics; allocation failures inside
// the engine are programming errors (shape already validated upstream).
func (b *Backend) alloc(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, dtype, b.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: alloc %v: %v", shape, err))
	}
	return out
}
