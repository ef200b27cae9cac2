package cpu

import (
	"testing"

	"github.com/colbybanbury/keras/internal/tensor"
)

func TestConv1DSlidingSum(t *testing.T) {
	backend := New()

	// Input [1, 1, 4] = [1, 2, 3, 4], kernel [1, 1, 2] = [1, 1].
	input, _ := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 4})
	kernel, _ := tensor.FromFloat32([]float32{1, 1}, tensor.Shape{1, 1, 2})

	output := backend.Conv1D(input, kernel, ConvOpts{
		Strides: []int{1}, Padding: []int{0}, Dilation: []int{1}, Groups: 1,
	})

	if !output.Shape().Equal(tensor.Shape{1, 1, 3}) {
		t.Fatalf("shape: got %v, want [1 1 3]", output.Shape())
	}
	expected := []float32{3, 5, 7}
	data := output.AsFloat32()
	for i, exp := range expected {
		if data[i] != exp {
			t.Errorf("Conv1D[%d]: got %v, want %v", i, data[i], exp)
		}
	}
}

func TestConv1DStrideAndPadding(t *testing.T) {
	backend := New()

	input, _ := tensor.FromFloat32([]float32{1, 2, 3, 4, 5}, tensor.Shape{1, 1, 5})
	kernel, _ := tensor.FromFloat32([]float32{1, 1, 1}, tensor.Shape{1, 1, 3})

	output := backend.Conv1D(input, kernel, ConvOpts{
		Strides: []int{2}, Padding: []int{1}, Dilation: []int{1}, Groups: 1,
	})

	// Padded input [0 1 2 3 4 5 0], windows at 0, 2, 4.
	if !output.Shape().Equal(tensor.Shape{1, 1, 3}) {
		t.Fatalf("shape: got %v, want [1 1 3]", output.Shape())
	}
	expected := []float32{3, 9, 9}
	data := output.AsFloat32()
	for i, exp := range expected {
		if data[i] != exp {
			t.Errorf("Conv1D[%d]: got %v, want %v", i, data[i], exp)
		}
	}
}

func TestConv1DDilation(t *testing.T) {
	backend := New()

	input, _ := tensor.FromFloat32([]float32{1, 2, 3, 4, 5}, tensor.Shape{1, 1, 5})
	kernel, _ := tensor.FromFloat32([]float32{1, 1}, tensor.Shape{1, 1, 2})

	output := backend.Conv1D(input, kernel, ConvOpts{
		Strides: []int{1}, Padding: []int{0}, Dilation: []int{2}, Groups: 1,
	})

	// Effective kernel size 3; taps at i and i+2.
	if !output.Shape().Equal(tensor.Shape{1, 1, 3}) {
		t.Fatalf("shape: got %v, want [1 1 3]", output.Shape())
	}
	expected := []float32{4, 6, 8}
	data := output.AsFloat32()
	for i, exp := range expected {
		if data[i] != exp {
			t.Errorf("Conv1D dilated[%d]: got %v, want %v", i, data[i], exp)
		}
	}
}

func TestConv2DOnes(t *testing.T) {
	backend := New()

	input := tensor.Zeros(tensor.Shape{1, 1, 3, 3}, tensor.Float32, tensor.CPU)
	inData := input.AsFloat32()
	for i := range inData {
		inData[i] = 1
	}
	kernel := tensor.Zeros(tensor.Shape{1, 1, 2, 2}, tensor.Float32, tensor.CPU)
	kData := kernel.AsFloat32()
	for i := range kData {
		kData[i] = 1
	}

	output := backend.Conv2D(input, kernel, ConvOpts{
		Strides: []int{1, 1}, Padding: []int{0, 0}, Dilation: []int{1, 1}, Groups: 1,
	})

	if !output.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("shape: got %v, want [1 1 2 2]", output.Shape())
	}
	data := output.AsFloat32()
	for i, v := range data {
		if v != 4 {
			t.Errorf("Conv2D[%d]: got %v, want 4", i, v)
		}
	}
}

func TestConv2DMultiChannel(t *testing.T) {
	backend := New()

	// Two input channels: channel 0 all ones, channel 1 all twos.
	input := tensor.Zeros(tensor.Shape{1, 2, 2, 2}, tensor.Float32, tensor.CPU)
	inData := input.AsFloat32()
	for i := 0; i < 4; i++ {
		inData[i] = 1
		inData[4+i] = 2
	}
	// Single 1x1 output filter summing both channels.
	kernel, _ := tensor.FromFloat32([]float32{1, 1}, tensor.Shape{1, 2, 1, 1})

	output := backend.Conv2D(input, kernel, ConvOpts{
		Strides: []int{1, 1}, Padding: []int{0, 0}, Dilation: []int{1, 1}, Groups: 1,
	})

	if !output.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("shape: got %v, want [1 1 2 2]", output.Shape())
	}
	for i, v := range output.AsFloat32() {
		if v != 3 {
			t.Errorf("Conv2D[%d]: got %v, want 3", i, v)
		}
	}
}

func TestConv1DGrouped(t *testing.T) {
	backend := New()

	// Two channels, two groups: each output channel sees one input channel.
	input, _ := tensor.FromFloat32([]float32{
		1, 2, 3, // channel 0
		10, 20, 30, // channel 1
	}, tensor.Shape{1, 2, 3})
	// Kernel [Cout=2, Cin/groups=1, K=2], both filters [1, 1].
	kernel, _ := tensor.FromFloat32([]float32{1, 1, 1, 1}, tensor.Shape{2, 1, 2})

	output := backend.Conv1D(input, kernel, ConvOpts{
		Strides: []int{1}, Padding: []int{0}, Dilation: []int{1}, Groups: 2,
	})

	if !output.Shape().Equal(tensor.Shape{1, 2, 2}) {
		t.Fatalf("shape: got %v, want [1 2 2]", output.Shape())
	}
	expected := []float32{3, 5, 30, 50}
	data := output.AsFloat32()
	for i, exp := range expected {
		if data[i] != exp {
			t.Errorf("grouped Conv1D[%d]: got %v, want %v", i, data[i], exp)
		}
	}
}

func TestConvChannelMismatchPanics(t *testing.T) {
	backend := New()
	input, _ := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{1, 1, 3})
	kernel, _ := tensor.FromFloat32([]float32{1, 1, 1, 1}, tensor.Shape{1, 2, 2})
	defer func() {
		if recover() == nil {
			t.Error("Conv1D with mismatched channels should panic")
		}
	}()
	backend.Conv1D(input, kernel, ConvOpts{
		Strides: []int{1}, Padding: []int{0}, Dilation: []int{1}, Groups: 1,
	})
}

func TestConvTranspose1DScatter(t *testing.T) {
	backend := New()

	// Input [1, 2], kernel [Cin=1, Cout=1, K=2] = [1, 1], stride 2.
	input, _ := tensor.FromFloat32([]float32{1, 2}, tensor.Shape{1, 1, 2})
	kernel, _ := tensor.FromFloat32([]float32{1, 1}, tensor.Shape{1, 1, 2})

	output := backend.ConvTranspose1D(input, kernel, ConvTransposeOpts{
		Strides: []int{2}, Padding: []int{0}, OutputPadding: []int{0}, Dilation: []int{1},
	})

	if !output.Shape().Equal(tensor.Shape{1, 1, 4}) {
		t.Fatalf("shape: got %v, want [1 1 4]", output.Shape())
	}
	expected := []float32{1, 1, 2, 2}
	data := output.AsFloat32()
	for i, exp := range expected {
		if data[i] != exp {
			t.Errorf("ConvTranspose1D[%d]: got %v, want %v", i, data[i], exp)
		}
	}
}

func TestConvTranspose1DOverlap(t *testing.T) {
	backend := New()

	// Stride 1 makes adjacent scatters overlap and accumulate.
	input, _ := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{1, 1, 3})
	kernel, _ := tensor.FromFloat32([]float32{1, 1}, tensor.Shape{1, 1, 2})

	output := backend.ConvTranspose1D(input, kernel, ConvTransposeOpts{
		Strides: []int{1}, Padding: []int{0}, OutputPadding: []int{0}, Dilation: []int{1},
	})

	if !output.Shape().Equal(tensor.Shape{1, 1, 4}) {
		t.Fatalf("shape: got %v, want [1 1 4]", output.Shape())
	}
	expected := []float32{1, 3, 5, 3}
	data := output.AsFloat32()
	for i, exp := range expected {
		if data[i] != exp {
			t.Errorf("ConvTranspose1D[%d]: got %v, want %v", i, data[i], exp)
		}
	}
}

func TestConv2DFloat64(t *testing.T) {
	backend := New()

	input, _ := tensor.FromFloat64([]float64{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	kernel, _ := tensor.FromFloat64([]float64{1}, tensor.Shape{1, 1, 1, 1})

	output := backend.Conv2D(input, kernel, ConvOpts{
		Strides: []int{1, 1}, Padding: []int{0, 0}, Dilation: []int{1, 1}, Groups: 1,
	})

	if output.DType() != tensor.Float64 {
		t.Fatalf("dtype: got %s, want float64", output.DType())
	}
	data := output.AsFloat64()
	for i, exp := range []float64{1, 2, 3, 4} {
		if data[i] != exp {
			t.Errorf("Conv2D float64[%d]: got %v, want %v", i, data[i], exp)
		}
	}
}
