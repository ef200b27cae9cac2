package cpu

import (
	"math"
	"testing"

	"github.com/colbybanbury/keras/internal/tensor"
)

func TestBinaryCrossEntropyKnownValues(t *testing.T) {
	backend := New()
	output := fromValues(t, []float32{0.9, 0.2})
	target := fromValues(t, []float32{1, 0})

	loss := backend.BinaryCrossEntropy(output, target, ReductionNone)
	data := loss.AsFloat32()

	want0 := -math.Log(0.9)
	want1 := -math.Log(0.8)
	if !floatNear(float64(data[0]), want0, 1e-6) {
		t.Errorf("loss[0]: got %v, want %v", data[0], want0)
	}
	if !floatNear(float64(data[1]), want1, 1e-6) {
		t.Errorf("loss[1]: got %v, want %v", data[1], want1)
	}
}

// The native reduction defaults to a summed scalar.
func TestBinaryCrossEntropyReductions(t *testing.T) {
	backend := New()
	output := fromValues(t, []float32{0.5, 0.5})
	target := fromValues(t, []float32{1, 0})

	perElem := -math.Log(0.5)

	summed := backend.BinaryCrossEntropy(output, target, ReductionSum)
	if !summed.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("sum shape: got %v, want [1]", summed.Shape())
	}
	if got := float64(summed.AsFloat32()[0]); !floatNear(got, 2*perElem, 1e-6) {
		t.Errorf("sum: got %v, want %v", got, 2*perElem)
	}

	mean := backend.BinaryCrossEntropy(output, target, ReductionMean)
	if got := float64(mean.AsFloat32()[0]); !floatNear(got, perElem, 1e-6) {
		t.Errorf("mean: got %v, want %v", got, perElem)
	}

	none := backend.BinaryCrossEntropy(output, target, ReductionNone)
	if !none.Shape().Equal(tensor.Shape{2}) {
		t.Errorf("none shape: got %v, want [2]", none.Shape())
	}
}

func TestBinaryCrossEntropyWithLogitsMatchesSigmoidPath(t *testing.T) {
	backend := New()
	logits := fromValues(t, []float32{-2, -0.5, 0, 0.5, 2})
	target := fromValues(t, []float32{0, 1, 0, 1, 1})

	fromLogits := backend.BinaryCrossEntropyWithLogits(logits, target, ReductionNone).AsFloat32()
	fromProbs := backend.BinaryCrossEntropy(backend.Sigmoid(logits), target, ReductionNone).AsFloat32()

	for i := range fromLogits {
		if !floatNear(float64(fromLogits[i]), float64(fromProbs[i]), 1e-5) {
			t.Errorf("loss[%d]: logits path %v, sigmoid path %v", i, fromLogits[i], fromProbs[i])
		}
	}
}

func TestBinaryCrossEntropyWithLogitsExtremeValues(t *testing.T) {
	backend := New()
	logits := fromValues(t, []float32{100, -100})
	target := fromValues(t, []float32{1, 0})

	loss := backend.BinaryCrossEntropyWithLogits(logits, target, ReductionNone)
	data := loss.AsFloat32()
	for i := range data {
		if math.IsInf(float64(data[i]), 0) || math.IsNaN(float64(data[i])) {
			t.Errorf("loss[%d] not finite: %v", i, data[i])
		}
		if float64(data[i]) > 1e-6 {
			t.Errorf("loss[%d]: got %v, want ~0 for a confident correct score", i, data[i])
		}
	}
}
