package nn

import (
	"fmt"

	"github.com/colbybanbury/keras/internal/backend/cpu"
	"github.com/colbybanbury/keras/internal/config"
	"github.com/colbybanbury/keras/internal/tensor"
)

// ConvTranspose performs N-dimensional transposed convolution. kernel
// uses the library's (*spatial, out_channels, in_channels) layout.
// outputPadding nil lets each dimension default per the padding mode:
// "valid" targets an output length of (input-1)*stride + max(kernel,
// stride), "same" targets input*stride.
func ConvTranspose(inputs, kernel *tensor.RawTensor, strides []int, padding string, outputPadding []int, dataFormat string, dilationRate []int) (*tensor.RawTensor, error) {
	if err := requireTensor(inputs, "inputs"); err != nil {
		return nil, err
	}
	if err := requireTensor(kernel, "kernel"); err != nil {
		return nil, err
	}
	if err := validateSpatialRank(inputs, "conv transpose"); err != nil {
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
	if outputPadding != nil {
		if outputPadding, err = standardizeTuple(outputPadding, numSpatialDims, "output_padding"); err != nil {
			return nil, err
		}
	}

	dataFormat, err = config.StandardizeDataFormat(dataFormat)
	if err != nil {
		return nil, err
	}

	// Reconcile the (padding, output_padding) contract with the engine's
	// own transposed-convolution parameters before any layout changes;
	// the kernel's spatial sizes sit in its leading axes at this point.
	nativePads, nativeOutputPads, err := computeConvTransposePaddingArgs(
		kernel.Shape()[:numSpatialDims], strides, dilationRate, padding, outputPadding)
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

	opts := cpu.ConvTransposeOpts{
		Strides:       strides,
		Padding:       nativePads,
		OutputPadding: nativeOutputPads,
		Dilation:      dilationRate,
	}
	var outputs *tensor.RawTensor
	switch numSpatialDims {
	case 1:
		outputs = backend.ConvTranspose1D(inputs, kernel, opts)
	case 2:
		outputs = backend.ConvTranspose2D(inputs, kernel, opts)
	case 3:
		outputs = backend.ConvTranspose3D(inputs, kernel, opts)
	}

	if dataFormat == config.ChannelsLast {
		outputs = transposeSpatialOutputs(outputs)
	}
	return outputs, nil
}

// computeConvTransposePaddingArgs converts the library's per-call
// (padding, output_padding) arguments into the engine's native padding
// and output-padding parameters, one pair per spatial dimension.
// outputPadding nil selects the mode's default target length.
func computeConvTransposePaddingArgs(kernelSpatial tensor.Shape, strides, dilationRate []int, padding string, outputPadding []int) (pads, outputPads []int, err error) {
	n := len(kernelSpatial)
	pads = make([]int, n)
	outputPads = make([]int, n)
	for i := 0; i < n; i++ {
		op := -1
		if outputPadding != nil {
			op = outputPadding[i]
		}
		pads[i], outputPads[i], err = convTransposePaddingArgsForDim(
			kernelSpatial[i], strides[i], dilationRate[i], padding, op)
		if err != nil {
			return nil, nil, err
		}
	}
	return pads, outputPads, nil
}

// convTransposePaddingArgsForDim resolves one dimension. The engine
// starts from an output length of (input-1)*stride + kernel, trims pad
// cells from both ends and appends outputPad cells on the right; this
// solves for (pad, outputPad) hitting the library's target length.
// outputPadding < 0 means unspecified.
func convTransposePaddingArgsForDim(kernelSize, stride, dilationRate int, padding string, outputPadding int) (pad, outputPad int, err error) {
	effectiveKernelSize := (kernelSize-1)*dilationRate + 1

	if padding == PaddingValid {
		// Target length (input-1)*stride + max(kernel, stride).
		if outputPadding < 0 {
			outputPadding = max(effectiveKernelSize, stride) - effectiveKernelSize
		}
		pad = 0
		outputPad = outputPadding
	} else {
		// Target length input*stride.
		if outputPadding < 0 {
			outputPadding = stride - 1
		}
		pad = max(-floorDiv(effectiveKernelSize%2-effectiveKernelSize+outputPadding, 2), 0)
		outputPad = 2*pad + effectiveKernelSize%2 - effectiveKernelSize + outputPadding
	}

	if outputPad >= stride {
		return 0, 0, fmt.Errorf(
			"the padding arguments (padding=%q and output_padding=%d) lead to a native output padding (%d) that is greater than or equal to the stride (%d), which is not supported; change the padding arguments, kernel or stride",
			padding, outputPadding, outputPad, stride)
	}
	return pad, outputPad, nil
}

// floorDiv divides rounding toward negative infinity, matching the
// arithmetic the padding derivation was solved in.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
