package camemu

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Position is the facing direction of a host capture device.
type Position int

const (
	PositionUnknown Position = iota
	PositionFront            // facing the user
	PositionBack             // facing away from the user
)

func (p Position) String() string {
	switch p {
	case PositionFront:
		return "front"
	case PositionBack:
		return "back"
	default:
		return "unknown"
	}
}

// DeviceInfo describes a host video capture device.
type DeviceInfo struct {
	DeviceID string   // Unique identifier for the device (e.g. /dev/video0)
	Label    string   // Human-readable device name
	Position Position // Facing direction, PositionUnknown if the host does not say
}

// CaptureEncoding is the payload encoding of captured buffers.
type CaptureEncoding int

const (
	CaptureYUYV  CaptureEncoding = iota // packed 4:2:2, Y0 U0 Y1 V0
	CaptureMJPEG                        // one JPEG image per buffer
)

func (e CaptureEncoding) String() string {
	switch e {
	case CaptureYUYV:
		return "YUYV"
	case CaptureMJPEG:
		return "MJPEG"
	default:
		return "unknown"
	}
}

// CaptureFormat is the negotiated format of an open capture device.
type CaptureFormat struct {
	Width    int
	Height   int
	Encoding CaptureEncoding
}

// CaptureConstraints are the requested capture parameters. Providers may
// negotiate a different size or encoding; the result is reported by
// CaptureDevice.Format.
type CaptureConstraints struct {
	Width     int
	Height    int
	FrameRate int // whole frames per second, rounded up
	Encoding  CaptureEncoding
}

// CaptureDevice is an open, streaming host camera.
type CaptureDevice interface {
	// Frames delivers captured payloads. The channel is closed when the
	// device stops. Payloads are only valid until the next receive.
	Frames() <-chan []byte

	// Format returns the negotiated capture format.
	Format() CaptureFormat

	// Close stops streaming and releases the device.
	Close() error
}

// DeviceProvider is implemented by platform-specific capture backends.
type DeviceProvider interface {
	// ListVideoDevices returns available video capture devices.
	ListVideoDevices(ctx context.Context) ([]DeviceInfo, error)

	// OpenVideoDevice opens and starts streaming from a capture device.
	OpenVideoDevice(ctx context.Context, deviceID string, constraints *CaptureConstraints) (CaptureDevice, error)
}

// deviceRegistry holds the registered device provider.
type deviceRegistry struct {
	provider DeviceProvider
	mu       sync.RWMutex
}

var globalDeviceRegistry = &deviceRegistry{}

// RegisterDeviceProvider registers a platform-specific device provider.
func RegisterDeviceProvider(provider DeviceProvider) {
	globalDeviceRegistry.mu.Lock()
	defer globalDeviceRegistry.mu.Unlock()
	globalDeviceRegistry.provider = provider
}

// GetDeviceProvider returns the registered device provider, or nil.
func GetDeviceProvider() DeviceProvider {
	globalDeviceRegistry.mu.RLock()
	defer globalDeviceRegistry.mu.RUnlock()
	return globalDeviceRegistry.provider
}

var (
	frontLabelHints = []string{"front", "user", "facetime", "selfie"}
	backLabelHints  = []string{"back", "rear", "environment", "world"}
)

// InferPosition guesses a device's facing direction from its label.
func InferPosition(label string) Position {
	l := strings.ToLower(label)
	for _, h := range backLabelHints {
		if strings.Contains(l, h) {
			return PositionBack
		}
	}
	for _, h := range frontLabelHints {
		if strings.Contains(l, h) {
			return PositionFront
		}
	}
	return PositionUnknown
}

// selectDevice returns the device whose ID or label equals id, or the first
// device when id is empty.
func selectDevice(devices []DeviceInfo, id string) (DeviceInfo, error) {
	if len(devices) == 0 {
		return DeviceInfo{}, fmt.Errorf("no video devices available")
	}
	if id == "" {
		return devices[0], nil
	}
	for _, d := range devices {
		if d.DeviceID == id || d.Label == id {
			return d, nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("video device %q not found", id)
}

// assignDefaultDevices picks the front and back device IDs. Front-facing
// devices go to front and back-facing ones to back; devices with an unknown
// position fill whichever side is still empty, front first.
func assignDefaultDevices(devices []DeviceInfo) (front, back string) {
	var unknown []string
	for _, d := range devices {
		switch d.Position {
		case PositionFront:
			if front == "" {
				front = d.DeviceID
			}
		case PositionBack:
			if back == "" {
				back = d.DeviceID
			}
		default:
			unknown = append(unknown, d.DeviceID)
		}
	}
	for _, id := range unknown {
		switch {
		case front == "":
			front = id
		case back == "" && id != front:
			back = id
		}
	}
	return front, back
}

// discoverDefaults fills unset webcam identifiers in cfg from the host's
// devices. A webcam side that gets no device becomes SolidColor. It reports
// whether cfg was modified.
func discoverDefaults(ctx context.Context, provider DeviceProvider, cfg *Config) (bool, error) {
	needFront := cfg.Front.Type == CameraTypeWebcam && cfg.Front.DeviceID == ""
	needBack := cfg.Back.Type == CameraTypeWebcam && cfg.Back.DeviceID == ""
	if !needFront && !needBack {
		return false, nil
	}

	var devices []DeviceInfo
	var listErr error
	if provider == nil {
		listErr = fmt.Errorf("no device provider registered")
	} else {
		devices, listErr = provider.ListVideoDevices(ctx)
	}
	front, back := assignDefaultDevices(devices)

	apply := func(dc *DeviceConfig, id string) {
		if id == "" {
			dc.Type = CameraTypeSolidColor
			return
		}
		dc.DeviceID = id
	}
	if needFront {
		apply(&cfg.Front, front)
	}
	if needBack {
		apply(&cfg.Back, back)
	}
	return true, listErr
}
