package camemu

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CameraType selects the backend a device sources its pixels from.
type CameraType int

const (
	CameraTypeWebcam     CameraType = iota // Live host capture device
	CameraTypeImage                        // Static image file
	CameraTypeSolidColor                   // Uniform color
)

func (t CameraType) String() string {
	switch t {
	case CameraTypeWebcam:
		return "webcam"
	case CameraTypeImage:
		return "image"
	case CameraTypeSolidColor:
		return "solid_color"
	default:
		return "unknown"
	}
}

// ParseCameraType parses the names produced by CameraType.String.
func ParseCameraType(s string) (CameraType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webcam", "webcamera", "camera":
		return CameraTypeWebcam, nil
	case "image":
		return CameraTypeImage, nil
	case "solid_color", "solidcolor", "color":
		return CameraTypeSolidColor, nil
	default:
		return 0, fmt.Errorf("unknown camera type %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (t CameraType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *CameraType) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseCameraType(node.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RGBA is a packed 0xRRGGBBAA color.
type RGBA uint32

// NewRGBA packs four 8-bit channels.
func NewRGBA(r, g, b, a uint8) RGBA {
	return RGBA(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

func (c RGBA) R() uint8 { return uint8(c >> 24) }
func (c RGBA) G() uint8 { return uint8(c >> 16) }
func (c RGBA) B() uint8 { return uint8(c >> 8) }
func (c RGBA) A() uint8 { return uint8(c) }

func (c RGBA) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseRGBA parses "#RRGGBBAA", "#RRGGBB" (opaque) or the same without '#'.
func ParseRGBA(s string) (RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 6:
		s += "FF"
	case 8:
	default:
		return 0, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGBA(v), nil
}

// MarshalYAML implements yaml.Marshaler.
func (c RGBA) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *RGBA) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseRGBA(node.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// DeviceConfig selects and parameterizes the backend of one device.
type DeviceConfig struct {
	Type      CameraType `yaml:"type"`
	DeviceID  string     `yaml:"device_id"`  // Host capture device name or path (empty: first device)
	ImagePath string     `yaml:"image_path"` // Image file for CameraTypeImage
	Color     RGBA       `yaml:"color"`      // Color for CameraTypeSolidColor
	ScaleMode ScaleMode  `yaml:"scale_mode"` // How image and webcam frames are fitted to the open size
}

// Config holds the configuration of both emulated devices.
type Config struct {
	Front DeviceConfig `yaml:"front"`
	Back  DeviceConfig `yaml:"back"`
}

// DefaultColor is the solid color used when none is configured.
const DefaultColor RGBA = 0x000000FF

// DefaultConfig returns a configuration that uses the host webcams and falls
// back to opaque black.
func DefaultConfig() Config {
	dev := DeviceConfig{
		Type:      CameraTypeWebcam,
		Color:     DefaultColor,
		ScaleMode: ScaleModeFill,
	}
	return Config{Front: dev, Back: dev}
}

// LoadConfig reads a YAML configuration file. Missing keys keep the values of
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values. Paths and device names are only checked
// when a backend is resolved.
func (c Config) Validate() error {
	for _, d := range []struct {
		name string
		cfg  DeviceConfig
	}{{"front", c.Front}, {"back", c.Back}} {
		if d.cfg.Type < CameraTypeWebcam || d.cfg.Type > CameraTypeSolidColor {
			return fmt.Errorf("%s: unknown camera type %d", d.name, d.cfg.Type)
		}
		if d.cfg.ScaleMode < ScaleModeFill || d.cfg.ScaleMode > ScaleModeStretch {
			return fmt.Errorf("%s: unknown scale mode %d", d.name, d.cfg.ScaleMode)
		}
	}
	return nil
}
