package camemu

import (
	"context"
	"errors"
	"testing"
)

func TestSystem_InitDiscovery(t *testing.T) {
	provider := &fakeProvider{devices: []DeviceInfo{
		{DeviceID: "/dev/video2", Label: "Rear Camera", Position: PositionBack},
		{DeviceID: "/dev/video0", Label: "Front Camera", Position: PositionFront},
	}}
	sys := NewSystem(DefaultConfig(), testOptions(provider, newFakeClock())...)

	if _, err := sys.Device(DeviceFront); !errors.Is(err, ErrNotInit) {
		t.Fatalf("Device before Init: err = %v, want ErrNotInit", err)
	}
	if err := sys.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := sys.Init(context.Background()); !errors.Is(err, ErrAlreadyInit) {
		t.Errorf("second Init: err = %v, want ErrAlreadyInit", err)
	}

	cfg := sys.Config()
	if cfg.Front.DeviceID != "/dev/video0" || cfg.Back.DeviceID != "/dev/video2" {
		t.Errorf("discovered front=%q back=%q", cfg.Front.DeviceID, cfg.Back.DeviceID)
	}
	front, _ := sys.Device(DeviceFront)
	if front.Config().DeviceID != "/dev/video0" {
		t.Errorf("front device config = %+v", front.Config())
	}
}

func TestSystem_InitNoDevices(t *testing.T) {
	sys := NewSystem(DefaultConfig(), testOptions(&fakeProvider{}, newFakeClock())...)
	if err := sys.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	cfg := sys.Config()
	if cfg.Front.Type != CameraTypeSolidColor || cfg.Back.Type != CameraTypeSolidColor {
		t.Errorf("types = %v/%v, want solid_color for both", cfg.Front.Type, cfg.Back.Type)
	}
}

func TestSystem_ReadFlow(t *testing.T) {
	cfg := Config{Front: solidConfig(DefaultColor), Back: solidConfig(NewRGBA(0, 0, 255, 255))}
	sys := NewSystem(cfg, testOptions(&fakeProvider{}, newFakeClock())...)
	ctx := context.Background()
	if err := sys.Init(ctx); err != nil {
		t.Fatal(err)
	}

	params := OpenParams{Resolution: ResolutionQQVGA, Format: FormatABGR, FrameRate: FrameRate60}
	if err := sys.Open(DeviceBack, params, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := sys.Start(ctx, DeviceBack); err != nil {
		t.Fatal(err)
	}
	if active, _ := sys.IsActive(DeviceBack); !active {
		t.Error("back not active after Start")
	}
	if active, _ := sys.IsActive(DeviceFront); active {
		t.Error("front active without Start")
	}

	buf := NewReadBuffer(FormatABGR, 160, 120)
	res, err := sys.Read(DeviceBack, ReadModeWaitNextFrameOn, buf)
	if err != nil || res.Size != 160*120*4 {
		t.Fatalf("Read = %+v %v", res, err)
	}
	if buf.I[0] != 0 || buf.I[2] != 255 || buf.I[3] != 255 {
		t.Errorf("first pixel = %v, want blue", buf.I[:4])
	}

	// Switching the running device to another color takes effect at once.
	if err := sys.Reconfigure(ctx, DeviceBack, solidConfig(NewRGBA(255, 0, 0, 255))); err != nil {
		t.Fatal(err)
	}
	if _, err := sys.Read(DeviceBack, ReadModeWaitNextFrameOn, buf); err != nil {
		t.Fatal(err)
	}
	if buf.I[0] != 255 || buf.I[2] != 0 {
		t.Errorf("first pixel after reconfigure = %v, want red", buf.I[:4])
	}

	if err := sys.Stop(DeviceBack); err != nil {
		t.Fatal(err)
	}
	if err := sys.Close(DeviceBack); err != nil {
		t.Fatal(err)
	}
	if err := sys.Term(); err != nil {
		t.Fatal(err)
	}
	if err := sys.Term(); !errors.Is(err, ErrNotInit) {
		t.Errorf("second Term: err = %v, want ErrNotInit", err)
	}
}

func TestSystem_BadDeviceNumber(t *testing.T) {
	sys := NewSystem(DefaultConfig(), testOptions(&fakeProvider{}, newFakeClock())...)
	sys.Init(context.Background())

	for _, num := range []DeviceNumber{0, 3, -1} {
		if err := sys.Open(num, OpenParams{}, 0, 0); !errors.Is(err, ErrParam) {
			t.Errorf("Open(%d): err = %v, want ErrParam", num, err)
		}
		if _, err := sys.GetAttribute(num, AttributeZoom); !errors.Is(err, ErrParam) {
			t.Errorf("GetAttribute(%d): err = %v, want ErrParam", num, err)
		}
	}
}

func TestSystem_Attributes(t *testing.T) {
	sys := NewSystem(DefaultConfig(), testOptions(&fakeProvider{}, newFakeClock())...)
	sys.Init(context.Background())

	want := map[Attribute]int32{
		AttributeSaturation:   10,
		AttributeBrightness:   128,
		AttributeContrast:     32,
		AttributeSharpness:    1,
		AttributeReverse:      0,
		AttributeEffect:       0,
		AttributeEV:           0,
		AttributeZoom:         10,
		AttributeAntiFlicker:  1,
		AttributeISO:          1,
		AttributeGain:         0,
		AttributeWhiteBalance: 0,
		AttributeBacklight:    0,
		AttributeNightmode:    0,
	}
	for attr, v := range want {
		t.Run(attr.String(), func(t *testing.T) {
			if err := sys.SetAttribute(DeviceFront, attr, v+7); err != nil {
				t.Fatalf("SetAttribute: %v", err)
			}
			got, err := sys.GetAttribute(DeviceFront, attr)
			if err != nil || got != v {
				t.Errorf("GetAttribute = %d, %v; want %d", got, err, v)
			}
		})
	}

	if _, err := sys.GetAttribute(DeviceFront, Attribute(99)); !errors.Is(err, ErrParam) {
		t.Errorf("unknown attribute: err = %v", err)
	}
}

func TestSystem_DeviceLocation(t *testing.T) {
	sys := NewSystem(DefaultConfig(), testOptions(&fakeProvider{}, newFakeClock())...)
	sys.Init(context.Background())

	if p, _ := sys.DeviceLocation(DeviceFront); p != PositionFront {
		t.Errorf("front location = %v", p)
	}
	if p, _ := sys.DeviceLocation(DeviceBack); p != PositionBack {
		t.Errorf("back location = %v", p)
	}
}
