// Package config holds the process-wide framework configuration the op
// adaptation layer reads at call sites: the fuzz epsilon used by loss
// clamping, the default image data format, and the current execution
// device. Values are validated on write so readers never see a bad state.
package config

import (
	"fmt"
	"sync"

	"github.com/colbybanbury/keras/internal/tensor"
)

// Data format names accepted throughout the library.
const (
	ChannelsFirst = "channels_first"
	ChannelsLast  = "channels_last"
)

var (
	mu              sync.RWMutex
	epsilon         = 1e-7
	imageDataFormat = ChannelsLast
	device          = tensor.CPU
)

// Epsilon returns the small constant used to avoid log(0) in losses.
func Epsilon() float64 {
	mu.RLock()
	defer mu.RUnlock()
	return epsilon
}

// ImageDataFormat returns the default data format.
func ImageDataFormat() string {
	mu.RLock()
	defer mu.RUnlock()
	return imageDataFormat
}

// SetImageDataFormat changes the default data format.
func SetImageDataFormat(format string) error {
	if format != ChannelsFirst && format != ChannelsLast {
		return fmt.Errorf(
			"invalid data format: %q; expected one of {%q, %q}",
			format, ChannelsFirst, ChannelsLast)
	}
	mu.Lock()
	defer mu.Unlock()
	imageDataFormat = format
	return nil
}

// StandardizeDataFormat resolves an explicit data format argument: empty
// means the process default, anything else must be a valid format name.
func StandardizeDataFormat(format string) (string, error) {
	if format == "" {
		return ImageDataFormat(), nil
	}
	if format != ChannelsFirst && format != ChannelsLast {
		return "", fmt.Errorf(
			"invalid data format: %q; expected one of {%q, %q}",
			format, ChannelsFirst, ChannelsLast)
	}
	return format, nil
}

// Device returns the current execution device. Shape tracing runs with
// the meta device set.
func Device() tensor.Device {
	mu.RLock()
	defer mu.RUnlock()
	return device
}

// SetDevice changes the current execution device.
func SetDevice(d tensor.Device) {
	mu.Lock()
	defer mu.Unlock()
	device = d
}
