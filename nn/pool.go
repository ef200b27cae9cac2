package nn

import (
	"github.com/colbybanbury/keras/internal/backend/cpu"
	"github.com/colbybanbury/keras/internal/config"
	"github.com/colbybanbury/keras/internal/tensor"
)

// MaxPool applies max pooling over the spatial dimensions of inputs.
// poolSize and strides are scalar-or-tuple ([]int of length 1 or of the
// spatial rank); strides nil defaults to poolSize. padding is "valid" or
// "same"; dataFormat "" resolves to the process default.
func MaxPool(inputs *tensor.RawTensor, poolSize, strides []int, padding, dataFormat string) (*tensor.RawTensor, error) {
	return pool(inputs, poolSize, strides, padding, dataFormat, true)
}

// AveragePool applies average pooling over the spatial dimensions of
// inputs, with the same argument conventions as MaxPool. Cells added by
// "same" padding are excluded from the averaging denominator.
func AveragePool(inputs *tensor.RawTensor, poolSize, strides []int, padding, dataFormat string) (*tensor.RawTensor, error) {
	return pool(inputs, poolSize, strides, padding, dataFormat, false)
}

func pool(inputs *tensor.RawTensor, poolSize, strides []int, padding, dataFormat string, isMax bool) (*tensor.RawTensor, error) {
	if err := requireTensor(inputs, "inputs"); err != nil {
		return nil, err
	}
	opName := "pooling"
	if err := validateSpatialRank(inputs, opName); err != nil {
		return nil, err
	}
	if err := validatePadding(padding); err != nil {
		return nil, err
	}
	numSpatialDims := inputs.Rank() - 2

	poolSize, err := standardizeTuple(poolSize, numSpatialDims, "pool_size")
	if err != nil {
		return nil, err
	}
	if strides == nil {
		strides = poolSize
	} else if strides, err = standardizeTuple(strides, numSpatialDims, "strides"); err != nil {
		return nil, err
	}

	dataFormat, err = config.StandardizeDataFormat(dataFormat)
	if err != nil {
		return nil, err
	}

	// The pooling kernels cannot execute on shape-only tensors, and
	// neither can the layout and padding rewrites below; run everything
	// on a real zero buffer and restore the device tag at the end.
	device := config.Device()
	if inputs.Device() == tensor.Meta || device == tensor.Meta {
		device = tensor.Meta
		inputs = tensor.Zeros(inputs.Shape(), inputs.DType(), tensor.CPU)
	}

	if dataFormat == config.ChannelsLast {
		if inputs, err = transposeSpatialInputs(inputs); err != nil {
			return nil, err
		}
	}

	padAmounts := make([]int, numSpatialDims)
	if padding == PaddingSame {
		if isMax {
			// The engine has no native "same" mode; compute the amounts
			// here and fall back to explicit replicate padding when any
			// dimension splits unevenly.
			if inputs, padAmounts, err = applySamePadding(inputs, poolSize, strides, opPooling, nil); err != nil {
				return nil, err
			}
		} else {
			// The engine's averaging primitive only takes symmetric
			// amounts. Keep the left (shorter) amount symmetric and pad
			// the extra right cell explicitly on every uneven dimension.
			uneven := make([][2]int, inputs.Rank())
			needsPad := false
			spatialShape := inputs.Shape()[2:]
			for i := 0; i < numSpatialDims; i++ {
				pair := computePaddingLength(spatialShape[i], poolSize[i], strides[i], 1)
				padAmounts[i] = pair[0]
				if pair[0] != pair[1] {
					uneven[2+i] = [2]int{0, 1}
					needsPad = true
				}
			}
			if needsPad {
				inputs = backend.Pad(inputs, uneven, cpu.PadConstant)
			}
		}
	}

	opts := cpu.PoolOpts{KernelSize: poolSize, Strides: strides, Padding: padAmounts}
	var outputs *tensor.RawTensor
	if isMax {
		switch numSpatialDims {
		case 1:
			outputs = backend.MaxPool1D(inputs, opts)
		case 2:
			outputs = backend.MaxPool2D(inputs, opts)
		case 3:
			outputs = backend.MaxPool3D(inputs, opts)
		}
	} else {
		switch numSpatialDims {
		case 1:
			outputs = backend.AvgPool1D(inputs, opts)
		case 2:
			outputs = backend.AvgPool2D(inputs, opts)
		case 3:
			outputs = backend.AvgPool3D(inputs, opts)
		}
	}

	if dataFormat == config.ChannelsLast {
		outputs = transposeSpatialOutputs(outputs)
	}
	return outputs.ToDevice(device), nil
}
