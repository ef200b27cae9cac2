package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colbybanbury/keras/internal/config"
	"github.com/colbybanbury/keras/internal/tensor"
)

func TestMaxPoolValidChannelsLast(t *testing.T) {
	// [1, 4, 4, 1] with sequential values 1-16.
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i + 1)
	}
	inputs := fromF32(t, data, tensor.Shape{1, 4, 4, 1})

	out, err := MaxPool(inputs, []int{2}, nil, PaddingValid, "channels_last")
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 2, 2, 1}))
	assertFloat32Slice(t, []float64{6, 8, 14, 16}, out.AsFloat32(), 0)
}

func TestMaxPoolChannelsFirst(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 4})

	out, err := MaxPool(inputs, []int{2}, nil, PaddingValid, "channels_first")
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 1, 2}))
	assertFloat32Slice(t, []float64{2, 4}, out.AsFloat32(), 0)
}

func TestMaxPoolSameUneven(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2, 3, 4, 5}, tensor.Shape{1, 5, 1})

	out, err := MaxPool(inputs, []int{2}, nil, PaddingSame, "channels_last")
	require.NoError(t, err)
	// ceil(5/2) = 3; the border window sees the replicated edge value.
	require.True(t, out.Shape().Equal(tensor.Shape{1, 3, 1}))
	assertFloat32Slice(t, []float64{2, 4, 5}, out.AsFloat32(), 0)
}

func TestMaxPoolSameSymmetric(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2, 3}, tensor.Shape{1, 3, 1})

	out, err := MaxPool(inputs, []int{3}, []int{1}, PaddingSame, "channels_last")
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 3, 1}))
	assertFloat32Slice(t, []float64{2, 3, 3}, out.AsFloat32(), 0)
}

func TestAveragePoolValid(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 4, 1})

	out, err := AveragePool(inputs, []int{2}, nil, PaddingValid, "channels_last")
	require.NoError(t, err)
	assertFloat32Slice(t, []float64{1.5, 3.5}, out.AsFloat32(), 1e-6)
}

func TestAveragePoolSameUneven(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2, 3, 4, 5}, tensor.Shape{1, 5, 1})

	out, err := AveragePool(inputs, []int{2}, nil, PaddingSame, "channels_last")
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 3, 1}))
	// The extra right cell is zero filled and enters the denominator.
	assertFloat32Slice(t, []float64{1.5, 3.5, 2.5}, out.AsFloat32(), 1e-6)
}

func TestAveragePoolSameSymmetricExcludesPadding(t *testing.T) {
	inputs := fromF32(t, []float32{1, 2, 3}, tensor.Shape{1, 3, 1})

	out, err := AveragePool(inputs, []int{3}, []int{1}, PaddingSame, "channels_last")
	require.NoError(t, err)
	assertFloat32Slice(t, []float64{1.5, 2, 2.5}, out.AsFloat32(), 1e-6)
}

func TestPoolOutputLengthSame(t *testing.T) {
	for length := 4; length <= 7; length++ {
		for _, stride := range []int{1, 2, 3} {
			inputs := fromF32(t, make([]float32, length), tensor.Shape{1, length, 1})
			out, err := MaxPool(inputs, []int{3}, []int{stride}, PaddingSame, "channels_last")
			require.NoError(t, err)
			wantLen := (length + stride - 1) / stride
			assert.Equal(t, wantLen, out.Shape()[1],
				"length=%d stride=%d", length, stride)
		}
	}
}

func TestPoolStridesDefaultToPoolSize(t *testing.T) {
	inputs := fromF32(t, make([]float32, 8), tensor.Shape{1, 8, 1})

	defaulted, err := MaxPool(inputs, []int{2}, nil, PaddingValid, "channels_last")
	require.NoError(t, err)
	explicit, err := MaxPool(inputs, []int{2}, []int{2}, PaddingValid, "channels_last")
	require.NoError(t, err)
	assert.True(t, defaulted.Shape().Equal(explicit.Shape()))
}

func TestMaxPool2DSame(t *testing.T) {
	data := make([]float32, 25)
	for i := range data {
		data[i] = float32(i + 1)
	}
	inputs := fromF32(t, data, tensor.Shape{1, 5, 5, 1})

	out, err := MaxPool(inputs, []int{2, 2}, nil, PaddingSame, "channels_last")
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 3, 3, 1}))
	// Row-major maxima of 2x2 windows over the replicated 6x6 grid.
	expected := []float64{7, 9, 10, 17, 19, 20, 22, 24, 25}
	assertFloat32Slice(t, expected, out.AsFloat32(), 0)
}

func TestMaxPool3DShapeChannelsLast(t *testing.T) {
	inputs := fromF32(t, make([]float32, 64), tensor.Shape{1, 4, 4, 4, 1})

	out, err := MaxPool(inputs, []int{2}, nil, PaddingValid, "channels_last")
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 2, 2, 2, 1}))
}

func TestPoolRejectsBadRank(t *testing.T) {
	inputs := fromF32(t, make([]float32, 4), tensor.Shape{2, 2})
	_, err := MaxPool(inputs, []int{2}, nil, PaddingValid, "channels_last")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pooling")
}

func TestPoolRejectsBadPadding(t *testing.T) {
	inputs := fromF32(t, make([]float32, 8), tensor.Shape{1, 8, 1})
	_, err := MaxPool(inputs, []int{2}, nil, "full", "channels_last")
	assert.Error(t, err)
}

func TestPoolRejectsBadDataFormat(t *testing.T) {
	inputs := fromF32(t, make([]float32, 8), tensor.Shape{1, 8, 1})
	_, err := MaxPool(inputs, []int{2}, nil, PaddingValid, "nhwc")
	assert.Error(t, err)
}

func TestMaxPoolMetaDevice(t *testing.T) {
	config.SetDevice(tensor.Meta)
	defer config.SetDevice(tensor.CPU)

	inputs, err := tensor.NewRaw(tensor.Shape{1, 4, 4, 1}, tensor.Float32, tensor.Meta)
	require.NoError(t, err)

	out, err := MaxPool(inputs, []int{2}, nil, PaddingValid, "channels_last")
	require.NoError(t, err)
	assert.Equal(t, tensor.Meta, out.Device())
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 2, 2, 1}))
}
