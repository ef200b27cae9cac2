package nn

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/backend/cpu"
	"github.com/colbybanbury/keras/internal/config"
	"github.com/colbybanbury/keras/internal/tensor"
)

// Conv performs N-dimensional convolution (1D, 2D or 3D from the input
// rank). kernel uses the library's (*spatial, in_channels, out_channels)
// layout. strides and dilationRate are scalar-or-tuple; nil means 1.
// Grouped convolution falls out of the channel counts: the input channel
// count must be evenly divisible by the kernel's in_channels, and the
// quotient becomes the group count.
func Conv(inputs, kernel *tensor.RawTensor, strides []int, padding, dataFormat string, dilationRate []int) (*tensor.RawTensor, error) {
	if err := requireTensor(inputs, "inputs"); err != nil {
		return nil, err
	}
	if err := requireTensor(kernel, "kernel"); err != nil {
		return nil, err
	}
	if err := validateSpatialRank(inputs, "conv"); err != nil {
		return nil, err
	}
	if err := validatePadding(padding); err != nil {
		return nil, err
	}
	numSpatialDims := inputs.Rank() - 2

	strides, err := normalizeSpatialTuple(strides, numSpatialDims, "strides")
	if err != nil {
		return nil, err
	}
	dilationRate, err = normalizeSpatialTuple(dilationRate, numSpatialDims, "dilation_rate")
	if err != nil {
		return nil, err
	}

	dataFormat, err = config.StandardizeDataFormat(dataFormat)
	if err != nil {
		return nil, err
	}
	if dataFormat == config.ChannelsLast {
		if inputs, err = transposeSpatialInputs(inputs); err != nil {
			return nil, err
		}
	}
	kernel, err = transposeConvKernel(kernel)
	if err != nil {
		return nil, err
	}

	padAmounts := make([]int, numSpatialDims)
	if padding == PaddingSame {
		if inputs, padAmounts, err = applySamePadding(inputs, kernel.Shape()[2:], strides, opConv, dilationRate); err != nil {
			return nil, err
		}
	}

	channels := inputs.Shape()[1]
	kernelInChannels := kernel.Shape()[1]
	if channels%kernelInChannels != 0 {
		return nil, fmt.Errorf(
			"the number of input channels must be evenly divisible by kernel's in_channels; received: inputs.shape=%v, kernel.shape=%v",
			inputs.Shape(), kernel.Shape())
	}
	groups := channels / kernelInChannels

	opts := cpu.ConvOpts{Strides: strides, Padding: padAmounts, Dilation: dilationRate, Groups: groups}
	var outputs *tensor.RawTensor
	switch numSpatialDims {
	case 1:
		outputs = backend.Conv1D(inputs, kernel, opts)
	case 2:
		outputs = backend.Conv2D(inputs, kernel, opts)
	case 3:
		outputs = backend.Conv3D(inputs, kernel, opts)
	}

	if dataFormat == config.ChannelsLast {
		outputs = transposeSpatialOutputs(outputs)
	}
	return outputs, nil
}

// DepthwiseConv convolves every input channel independently with its own
// stack of filters. kernel uses the (*spatial, channels,
// channel_multiplier) layout; it is reshaped into the grouped form
// (*spatial, 1, channels*channel_multiplier) and handed to Conv, where
// the channel divisibility rule turns it into a per-channel grouping.
func DepthwiseConv(inputs, kernel *tensor.RawTensor, strides []int, padding, dataFormat string, dilationRate []int) (*tensor.RawTensor, error) {
	if err := requireTensor(kernel, "kernel"); err != nil {
		return nil, err
	}
	kShape := kernel.Shape()
	if len(kShape) < 2 {
		return nil, fmt.Errorf("depthwise kernel must have rank >= 2; received kernel shape: %v", kShape)
	}
	grouped := append(kShape[:len(kShape)-2].Clone(), 1, kShape[len(kShape)-2]*kShape[len(kShape)-1])
	kernel = backend.Reshape(kernel, grouped)
	return Conv(inputs, kernel, strides, padding, dataFormat, dilationRate)
}

// SeparableConv composes a depthwise convolution with a unit-stride
// valid-padding pointwise convolution.
func SeparableConv(inputs, depthwiseKernel, pointwiseKernel *tensor.RawTensor, strides []int, padding, dataFormat string, dilationRate []int) (*tensor.RawTensor, error) {
	depthwiseOutput, err := DepthwiseConv(inputs, depthwiseKernel, strides, padding, dataFormat, dilationRate)
	if err != nil {
		return nil, err
	}
	return Conv(depthwiseOutput, pointwiseKernel, []int{1}, PaddingValid, dataFormat, dilationRate)
}

// normalizeSpatialTuple is standardizeTuple with nil defaulting to all
// ones, the convention for strides and dilation rates.
func normalizeSpatialTuple(value []int, n int, name string) ([]int, error) {
	if value == nil {
		value = []int{1}
	}
	return standardizeTuple(value, n, name)
}
