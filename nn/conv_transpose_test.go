package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colbybanbury/keras/internal/tensor"
)

func TestConvTransposeValidStride2(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2}, tensor.Shape{1, 2, 1})
	// Kernel [K=2, out=1, in=1] of ones.
	kernel := fromF32(t, []float32{1, 1}, tensor.Shape{2, 1, 1})

	out, err := ConvTranspose(inputs, kernel, []int{2}, PaddingValid, nil, "channels_last", nil)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 4, 1}))
	assertFloat32Slice(t, []float64{1, 1, 2, 2}, out.AsFloat32(), 1e-6)
}

func TestConvTransposeValidOverlap(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2, 3}, tensor.Shape{1, 3, 1})
	kernel := fromF32(t, []float32{1, 1}, tensor.Shape{2, 1, 1})

	out, err := ConvTranspose(inputs, kernel, []int{1}, PaddingValid, nil, "channels_last", nil)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 4, 1}))
	assertFloat32Slice(t, []float64{1, 3, 5, 3}, out.AsFloat32(), 1e-6)
}

// "same" transposed convolution with an odd kernel targets exactly
// input*stride.
func TestConvTransposeSameOutputLength(t *testing.T) {
	for _, tc := range []struct {
		length, kernel, stride int
	}{
		{3, 3, 2},
		{4, 3, 2},
		{5, 3, 1},
		{2, 5, 3},
	} {
		inputs := fromF32(t, make([]float32, tc.length), tensor.Shape{1, tc.length, 1})
		kernel := onesTensor(t, tensor.Shape{tc.kernel, 1, 1})

		out, err := ConvTranspose(inputs, kernel, []int{tc.stride}, PaddingSame, nil, "channels_last", nil)
		require.NoError(t, err, "length=%d kernel=%d stride=%d", tc.length, tc.kernel, tc.stride)
		assert.Equal(t, tc.length*tc.stride, out.Shape()[1],
			"length=%d kernel=%d stride=%d", tc.length, tc.kernel, tc.stride)
	}
}

// An even kernel under "same" resolves one cell short of input*stride;
// the trim amounts cannot hit the exact target with symmetric padding.
func TestConvTransposeSameEvenKernel(t *testing.T) {
	inputs := fromF32(t, make([]float32, 3), tensor.Shape{1, 3, 1})
	kernel := onesTensor(t, tensor.Shape{4, 1, 1})

	out, err := ConvTranspose(inputs, kernel, []int{2}, PaddingSame, nil, "channels_last", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Shape()[1])
}

func TestConvTransposeValidDefaultLength(t *testing.T) {
	// Valid padding targets (input-1)*stride + max(kernel, stride).
	for _, tc := range []struct {
		length, kernel, stride int
	}{
		{2, 2, 2},
		{3, 3, 1},
		{3, 2, 3},
	} {
		inputs := fromF32(t, make([]float32, tc.length), tensor.Shape{1, tc.length, 1})
		kernel := onesTensor(t, tensor.Shape{tc.kernel, 1, 1})

		out, err := ConvTranspose(inputs, kernel, []int{tc.stride}, PaddingValid, nil, "channels_last", nil)
		require.NoError(t, err)
		want := (tc.length-1)*tc.stride + max(tc.kernel, tc.stride)
		assert.Equal(t, want, out.Shape()[1],
			"length=%d kernel=%d stride=%d", tc.length, tc.kernel, tc.stride)
	}
}

func TestConvTransposeChannels(t *testing.T) {
	// One input channel to two output channels via a [K=1, out=2, in=1]
	// kernel scaling by 1 and 10.
	inputs := fromF32(t, []float32{1, 2, 3}, tensor.Shape{1, 3, 1})
	kernel := fromF32(t, []float32{1, 10}, tensor.Shape{1, 2, 1})

	out, err := ConvTranspose(inputs, kernel, []int{1}, PaddingValid, nil, "channels_last", nil)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 3, 2}))
	assertFloat32Slice(t, []float64{1, 10, 2, 20, 3, 30}, out.AsFloat32(), 1e-6)
}

func TestConvTransposeChannelsFirst(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2}, tensor.Shape{1, 1, 2})
	kernel := fromF32(t, []float32{1, 1}, tensor.Shape{2, 1, 1})

	out, err := ConvTranspose(inputs, kernel, []int{2}, PaddingValid, nil, "channels_first", nil)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 1, 4}))
	assertFloat32Slice(t, []float64{1, 1, 2, 2}, out.AsFloat32(), 1e-6)
}

func TestConvTransposeUnsupportedOutputPadding(t *testing.T) {
	inputs := fromF32(t, make([]float32, 3), tensor.Shape{1, 3, 1})
	kernel := onesTensor(t, tensor.Shape{3, 1, 1})

	_, err := ConvTranspose(inputs, kernel, []int{1}, PaddingSame, []int{1}, "channels_last", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output padding")
}

func TestConvTransposeRejectsBadRank(t *testing.T) {
	inputs := fromF32(t, make([]float32, 4), tensor.Shape{2, 2})
	kernel := onesTensor(t, tensor.Shape{2, 1, 1})
	_, err := ConvTranspose(inputs, kernel, []int{1}, PaddingValid, nil, "channels_last", nil)
	assert.Error(t, err)
}

func TestConvTransposePaddingArgsForDim(t *testing.T) {
	// valid, kernel 2, stride 2: no trimming needed.
	pad, outPad, err := convTransposePaddingArgsForDim(2, 2, 1, PaddingValid, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, pad)
	assert.Equal(t, 0, outPad)

	// same, kernel 3, stride 2: trim one cell each side, one extra on
	// the right.
	pad, outPad, err = convTransposePaddingArgsForDim(3, 2, 1, PaddingSame, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, pad)
	assert.Equal(t, 1, outPad)

	// same, kernel 3, stride 1.
	pad, outPad, err = convTransposePaddingArgsForDim(3, 1, 1, PaddingSame, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, pad)
	assert.Equal(t, 0, outPad)
}
