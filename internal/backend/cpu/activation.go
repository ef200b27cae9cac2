package cpu

import (
	"math"

	"github.com/colbybanbury/keras/internal/tensor"
)

// Scaled exponential linear unit constants (Klambauer et al., 2017).
const (
	seluAlpha = 1.6732632423543772
	seluScale = 1.0507009873554805
)

func sigmoidScalar(v float64) float64 {
	return 1.0 / (1.0 + math.Exp(-v))
}

// softplusScalar computes log(1 + exp(v)) without overflow for large v.
func softplusScalar(v float64) float64 {
	return math.Max(v, 0) + math.Log1p(math.Exp(-math.Abs(v)))
}

// ReLU computes max(0, x).
func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "relu", func(v float64) float64 { return math.Max(v, 0) })
}

// ReLU6 computes min(max(0, x), 6).
func (b *Backend) ReLU6(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "relu6", func(v float64) float64 {
		return math.Min(math.Max(v, 0), 6)
	})
}

// Sigmoid computes 1 / (1 + exp(-x)).
func (b *Backend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "sigmoid", sigmoidScalar)
}

// Tanh computes the hyperbolic tangent.
func (b *Backend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "tanh", math.Tanh)
}

// Softplus computes log(1 + exp(x)).
func (b *Backend) Softplus(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "softplus", softplusScalar)
}

// Softsign computes x / (1 + |x|).
func (b *Backend) Softsign(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "softsign", func(v float64) float64 {
		return v / (1 + math.Abs(v))
	})
}

// LogSigmoid computes log(sigmoid(x)) as -softplus(-x) for stability.
func (b *Backend) LogSigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "log_sigmoid", func(v float64) float64 {
		return -softplusScalar(-v)
	})
}

// LeakyReLU scales negative values by negativeSlope.
func (b *Backend) LeakyReLU(x *tensor.RawTensor, negativeSlope float64) *tensor.RawTensor {
	return b.unaryOp(x, "leaky_relu", func(v float64) float64 {
		if v >= 0 {
			return v
		}
		return v * negativeSlope
	})
}

// HardSigmoid computes relu6(x + 3) / 6.
func (b *Backend) HardSigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "hard_sigmoid", func(v float64) float64 {
		return math.Min(math.Max(v+3, 0), 6) / 6
	})
}

// ELU computes x for x > 0 and alpha * (exp(x) - 1) otherwise.
func (b *Backend) ELU(x *tensor.RawTensor, alpha float64) *tensor.RawTensor {
	return b.unaryOp(x, "elu", func(v float64) float64 {
		if v > 0 {
			return v
		}
		return alpha * math.Expm1(v)
	})
}

// SELU computes scale * elu(x, alpha) with the fixed self-normalizing
// constants.
func (b *Backend) SELU(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "selu", func(v float64) float64 {
		if v > 0 {
			return seluScale * v
		}
		return seluScale * seluAlpha * math.Expm1(v)
	})
}

// GELU computes the Gaussian error linear unit. With approximate=true the
// tanh approximation is used, otherwise the exact erf form.
func (b *Backend) GELU(x *tensor.RawTensor, approximate bool) *tensor.RawTensor {
	if approximate {
		c := math.Sqrt(2.0 / math.Pi)
		return b.unaryOp(x, "gelu", func(v float64) float64 {
			return 0.5 * v * (1 + math.Tanh(c*(v+0.044715*v*v*v)))
		})
	}
	return b.unaryOp(x, "gelu", func(v float64) float64 {
		return 0.5 * v * (1 + math.Erf(v/math.Sqrt2))
	})
}
