package nn

import (
	"fmt"
	"math"

	"github.com/colbybanbury/keras/internal/backend/cpu"
	"github.com/colbybanbury/keras/internal/tensor"
)

// backend is the engine instance this adaptation layer targets.
var backend = cpu.New()

// Padding mode names accepted by the spatial ops.
const (
	PaddingValid = "valid"
	PaddingSame  = "same"
)

// AxisAll requests reduction over every element of the tensor instead of
// a single axis. The engine's axis-less primitives default to the last
// axis only, so passing AxisAll triggers a flatten/reduce/restore cycle.
const AxisAll = math.MinInt

// operation types for same-padding computation
const (
	opPooling = "pooling"
	opConv    = "conv"
)

func validatePadding(padding string) error {
	if padding != PaddingValid && padding != PaddingSame {
		return fmt.Errorf("invalid padding %q; expected one of {%q, %q}", padding, PaddingValid, PaddingSame)
	}
	return nil
}

// standardizeTuple normalizes a scalar-or-tuple argument to exactly n
// entries: a single value broadcasts across every spatial dimension, any
// other length must match n.
func standardizeTuple(value []int, n int, name string) ([]int, error) {
	if len(value) == 1 {
		out := make([]int, n)
		for i := range out {
			out[i] = value[0]
		}
		return out, nil
	}
	if len(value) != n {
		return nil, fmt.Errorf(
			"argument %q must be a scalar or a tuple of %d values; received %v", name, n, value)
	}
	return append([]int(nil), value...), nil
}

func requireTensor(x *tensor.RawTensor, name string) error {
	if x == nil {
		return fmt.Errorf("argument %q must not be nil", name)
	}
	return nil
}
