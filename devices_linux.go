//go:build linux && cgo && !nodevices

// Linux V4L2 capture backend built on go4vl.

package camemu

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
)

// LinuxDeviceProvider implements DeviceProvider using V4L2.
type LinuxDeviceProvider struct{}

// NewLinuxDeviceProvider creates a new Linux device provider.
func NewLinuxDeviceProvider() *LinuxDeviceProvider {
	return &LinuxDeviceProvider{}
}

// ListVideoDevices implements DeviceProvider.
func (p *LinuxDeviceProvider) ListVideoDevices(ctx context.Context) ([]DeviceInfo, error) {
	paths, err := device.GetAllDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to list V4L2 devices: %w", err)
	}
	sort.Strings(paths)

	var devices []DeviceInfo
	for _, path := range paths {
		if ctx.Err() != nil {
			return devices, ctx.Err()
		}
		dev, err := device.Open(path)
		if err != nil {
			continue
		}
		caps := dev.Capability()
		dev.Close()
		// Metadata nodes share the card name but cannot capture.
		if !caps.IsVideoCaptureSupported() {
			continue
		}
		devices = append(devices, DeviceInfo{
			DeviceID: path,
			Label:    caps.Card,
			Position: InferPosition(caps.Card),
		})
	}
	return devices, nil
}

// OpenVideoDevice implements DeviceProvider.
func (p *LinuxDeviceProvider) OpenVideoDevice(ctx context.Context, deviceID string, constraints *CaptureConstraints) (CaptureDevice, error) {
	if constraints == nil {
		constraints = &CaptureConstraints{Width: 640, Height: 480, FrameRate: 30}
	}

	pixFmt := v4l2.PixelFmtYUYV
	if constraints.Encoding == CaptureMJPEG {
		pixFmt = v4l2.PixelFmtMJPEG
	}

	dev, err := device.Open(deviceID,
		device.WithIOType(v4l2.IOTypeMMAP),
		device.WithPixFormat(v4l2.PixFormat{
			PixelFormat: pixFmt,
			Width:       uint32(constraints.Width),
			Height:      uint32(constraints.Height),
			Field:       v4l2.FieldNone,
		}),
		device.WithFPS(uint32(constraints.FrameRate)),
		device.WithBufferSize(4),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", deviceID, err)
	}

	// The driver may have adjusted the request.
	got, err := dev.GetPixFormat()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("failed to query format of %s: %w", deviceID, err)
	}
	format := CaptureFormat{Width: int(got.Width), Height: int(got.Height)}
	switch got.PixelFormat {
	case v4l2.PixelFmtYUYV:
		format.Encoding = CaptureYUYV
	case v4l2.PixelFmtMJPEG:
		format.Encoding = CaptureMJPEG
	default:
		dev.Close()
		return nil, fmt.Errorf("%s: unsupported pixel format 0x%08x", deviceID, got.PixelFormat)
	}

	// The stream outlives the call that opened it; only Close ends it.
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if err := dev.Start(streamCtx); err != nil {
		cancel()
		dev.Close()
		return nil, fmt.Errorf("failed to start streaming on %s: %w", deviceID, err)
	}

	return &v4l2Capture{dev: dev, format: format, cancel: cancel}, nil
}

// v4l2Capture is a streaming go4vl device.
type v4l2Capture struct {
	dev    *device.Device
	format CaptureFormat
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

func (c *v4l2Capture) Frames() <-chan []byte { return c.dev.GetOutput() }

func (c *v4l2Capture) Format() CaptureFormat { return c.format }

// Close stops streaming and waits for the capture goroutine to stop the
// device and close the output channel before releasing the device.
func (c *v4l2Capture) Close() error {
	c.once.Do(func() {
		c.cancel()
		if !drainUntilClosed(c.dev.GetOutput(), closeDrainTimeout) {
			c.err = fmt.Errorf("capture did not stop within %v", closeDrainTimeout)
			return
		}
		c.err = c.dev.Close()
	})
	return c.err
}

func init() {
	RegisterDeviceProvider(NewLinuxDeviceProvider())
}
