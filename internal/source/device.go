package source

import (
	"context"
	"fmt"

	"go1090/internal/rtlsdr"
)

// DeviceSource streams IQ frames from a physical RTL-SDR dongle.
type DeviceSource struct {
	dev *rtlsdr.RTLSDRDevice
}

// NewDeviceSource opens and configures device deviceIndex for the given
// center frequency, sample rate, and gain (0 selects auto gain), mirroring
// original_source/tuner.py's Tuner.__init__ device branch.
func NewDeviceSource(deviceIndex int, frequency, sampleRate uint32, gain int) (*DeviceSource, error) {
	dev, err := rtlsdr.NewRTLSDRDevice(deviceIndex)
	if err != nil {
		return nil, fmt.Errorf("open rtl-sdr device: %w", err)
	}
	if err := dev.Configure(frequency, sampleRate, gain); err != nil {
		dev.Close()
		return nil, fmt.Errorf("configure rtl-sdr device: %w", err)
	}
	return &DeviceSource{dev: dev}, nil
}

// Run blocks, streaming IQ frames until ctx is cancelled.
func (d *DeviceSource) Run(ctx context.Context, frameChan chan<- []byte, overflow func()) error {
	return d.dev.StartCapture(ctx, frameChan, overflow)
}

// Close releases the underlying device.
func (d *DeviceSource) Close() error {
	return d.dev.Close()
}
