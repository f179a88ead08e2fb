package camemu

import (
	"context"
	"errors"
	"testing"
)

func TestInferPosition(t *testing.T) {
	tests := []struct {
		label string
		want  Position
	}{
		{"FaceTime HD Camera", PositionFront},
		{"Front Camera", PositionFront},
		{"user-facing camera", PositionFront},
		{"Back Camera", PositionBack},
		{"Rear Wide", PositionBack},
		{"environment", PositionBack},
		{"Integrated Camera: Integrated C", PositionUnknown},
		{"", PositionUnknown},
	}
	for _, tt := range tests {
		if got := InferPosition(tt.label); got != tt.want {
			t.Errorf("InferPosition(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestAssignDefaultDevices(t *testing.T) {
	tests := []struct {
		name        string
		devices     []DeviceInfo
		front, back string
	}{
		{"none", nil, "", ""},
		{
			"by position",
			[]DeviceInfo{{DeviceID: "b", Position: PositionBack}, {DeviceID: "f", Position: PositionFront}},
			"f", "b",
		},
		{
			"unknown fills front then back",
			[]DeviceInfo{{DeviceID: "u0"}, {DeviceID: "u1"}, {DeviceID: "u2"}},
			"u0", "u1",
		},
		{
			"unknown fills the missing side",
			[]DeviceInfo{{DeviceID: "u0"}, {DeviceID: "f", Position: PositionFront}},
			"f", "u0",
		},
		{
			"single unknown device",
			[]DeviceInfo{{DeviceID: "u0"}},
			"u0", "",
		},
		{
			"first of each side wins",
			[]DeviceInfo{
				{DeviceID: "f0", Position: PositionFront},
				{DeviceID: "f1", Position: PositionFront},
				{DeviceID: "b0", Position: PositionBack},
			},
			"f0", "b0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, back := assignDefaultDevices(tt.devices)
			if front != tt.front || back != tt.back {
				t.Errorf("got front=%q back=%q, want %q %q", front, back, tt.front, tt.back)
			}
		})
	}
}

func TestDiscoverDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("configured sides untouched", func(t *testing.T) {
		cfg := Config{
			Front: DeviceConfig{Type: CameraTypeWebcam, DeviceID: "/dev/video5"},
			Back:  DeviceConfig{Type: CameraTypeImage},
		}
		p := &fakeProvider{devices: []DeviceInfo{{DeviceID: "/dev/video0"}}}
		changed, err := discoverDefaults(ctx, p, &cfg)
		if changed || err != nil {
			t.Errorf("changed=%v err=%v", changed, err)
		}
		if cfg.Front.DeviceID != "/dev/video5" || cfg.Back.Type != CameraTypeImage {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("one device", func(t *testing.T) {
		cfg := DefaultConfig()
		p := &fakeProvider{devices: []DeviceInfo{{DeviceID: "/dev/video0"}}}
		changed, err := discoverDefaults(ctx, p, &cfg)
		if !changed || err != nil {
			t.Fatalf("changed=%v err=%v", changed, err)
		}
		if cfg.Front.Type != CameraTypeWebcam || cfg.Front.DeviceID != "/dev/video0" {
			t.Errorf("front = %+v", cfg.Front)
		}
		if cfg.Back.Type != CameraTypeSolidColor {
			t.Errorf("back = %+v, want solid color", cfg.Back)
		}
	})

	t.Run("no provider", func(t *testing.T) {
		cfg := DefaultConfig()
		changed, err := discoverDefaults(ctx, nil, &cfg)
		if !changed || err == nil {
			t.Fatalf("changed=%v err=%v", changed, err)
		}
		if cfg.Front.Type != CameraTypeSolidColor || cfg.Back.Type != CameraTypeSolidColor {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("listing fails", func(t *testing.T) {
		cfg := DefaultConfig()
		p := &fakeProvider{listErr: errors.New("permission denied")}
		if _, err := discoverDefaults(ctx, p, &cfg); err == nil {
			t.Error("expected the listing error")
		}
		if cfg.Front.Type != CameraTypeSolidColor {
			t.Errorf("front = %+v", cfg.Front)
		}
	})
}

func TestSelectDevice(t *testing.T) {
	devices := []DeviceInfo{{DeviceID: "/dev/video0", Label: "A"}, {DeviceID: "/dev/video2", Label: "B"}}

	if d, err := selectDevice(devices, ""); err != nil || d.DeviceID != "/dev/video0" {
		t.Errorf("default = %+v, %v", d, err)
	}
	if d, err := selectDevice(devices, "B"); err != nil || d.DeviceID != "/dev/video2" {
		t.Errorf("by label = %+v, %v", d, err)
	}
	if d, err := selectDevice(devices, "/dev/video2"); err != nil || d.Label != "B" {
		t.Errorf("by id = %+v, %v", d, err)
	}
	if _, err := selectDevice(devices, "C"); err == nil {
		t.Error("unknown device selected")
	}
	if _, err := selectDevice(nil, ""); err == nil {
		t.Error("selected from an empty list")
	}
}

func TestDeviceProviderRegistry(t *testing.T) {
	prev := GetDeviceProvider()
	defer RegisterDeviceProvider(prev)

	p := &fakeProvider{}
	RegisterDeviceProvider(p)
	if GetDeviceProvider() != DeviceProvider(p) {
		t.Error("registered provider not returned")
	}
	if o := newOptions(nil); o.provider != DeviceProvider(p) {
		t.Error("options do not default to the registered provider")
	}
}
