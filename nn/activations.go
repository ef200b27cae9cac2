package nn

import (
	"github.com/colbybanbury/keras/internal/tensor"
)

// ReLU computes max(0, x).
func ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.ReLU(x)
}

// ReLU6 computes min(max(0, x), 6).
func ReLU6(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.ReLU6(x)
}

// Sigmoid computes 1 / (1 + exp(-x)).
func Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.Sigmoid(x)
}

// Tanh computes the hyperbolic tangent.
func Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.Tanh(x)
}

// Softplus computes log(1 + exp(x)).
func Softplus(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.Softplus(x)
}

// Softsign computes x / (1 + |x|).
func Softsign(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.Softsign(x)
}

// SiLU computes the self-gated unit x * sigmoid(beta * x).
func SiLU(x *tensor.RawTensor, beta float64) *tensor.RawTensor {
	return backend.Mul(x, backend.Sigmoid(backend.MulScalar(x, beta)))
}

// LogSigmoid computes log(sigmoid(x)).
func LogSigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.LogSigmoid(x)
}

// LeakyReLU scales negative values by negativeSlope.
func LeakyReLU(x *tensor.RawTensor, negativeSlope float64) *tensor.RawTensor {
	return backend.LeakyReLU(x, negativeSlope)
}

// HardSigmoid computes relu6(x + 3) / 6, a piecewise-linear sigmoid.
func HardSigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.HardSigmoid(x)
}

// ELU computes x for positive values and alpha * (exp(x) - 1) otherwise.
func ELU(x *tensor.RawTensor, alpha float64) *tensor.RawTensor {
	return backend.ELU(x, alpha)
}

// SELU computes the scaled exponential linear unit.
func SELU(x *tensor.RawTensor) *tensor.RawTensor {
	return backend.SELU(x)
}

// GELU computes the Gaussian error linear unit. With approximate=true the
// tanh approximation is used instead of the exact erf form.
func GELU(x *tensor.RawTensor, approximate bool) *tensor.RawTensor {
	return backend.GELU(x, approximate)
}
