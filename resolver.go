package camemu

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/logging"
)

// resolver materializes a FrameSource from a device configuration, walking
// the webcam, image, solid color chain. Failures demote cfg.Type in place and
// are only logged.
type resolver struct {
	provider DeviceProvider
	warmup   time.Duration
	log      logging.LeveledLogger
}

// target is what a resolved source must produce.
type target struct {
	width, height int
	rate          FrameRate
	format        ResolvedFormat
}

func (r *resolver) resolve(ctx context.Context, name string, cfg *DeviceConfig, t target) (*FrameSource, *VideoFrame) {
	if cfg.Type == CameraTypeWebcam {
		src, frame, err := r.openWebcam(ctx, cfg, t)
		if err == nil {
			r.log.Infof("%s: using %s", name, src)
			return src, frame
		}
		r.log.Warnf("%s: webcam %q unavailable, falling back to image: %v", name, cfg.DeviceID, err)
		cfg.Type = CameraTypeImage
	}

	if cfg.Type == CameraTypeImage {
		frame, err := imageSurface(cfg.ImagePath, t.width, t.height, cfg.ScaleMode, t.format)
		if err == nil {
			src := &FrameSource{Kind: CameraTypeImage, path: cfg.ImagePath}
			r.log.Debugf("%s: using %s", name, src)
			return src, frame
		}
		r.log.Warnf("%s: image %q unusable, falling back to solid color: %v", name, cfg.ImagePath, err)
		cfg.Type = CameraTypeSolidColor
	}

	if t.width <= 0 || t.height <= 0 {
		r.log.Errorf("%s: cannot synthesize a %dx%d surface", name, t.width, t.height)
		return nil, nil
	}
	r.log.Debugf("%s: using solid color %s", name, cfg.Color)
	return &FrameSource{Kind: CameraTypeSolidColor}, solidSurface(t.width, t.height, cfg.Color, t.format)
}

func (r *resolver) openWebcam(ctx context.Context, cfg *DeviceConfig, t target) (*FrameSource, *VideoFrame, error) {
	if r.provider == nil {
		return nil, nil, fmt.Errorf("no device provider registered")
	}
	devices, err := r.provider.ListVideoDevices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list video devices: %w", err)
	}
	info, err := selectDevice(devices, cfg.DeviceID)
	if err != nil {
		return nil, nil, err
	}

	capture, err := r.provider.OpenVideoDevice(ctx, info.DeviceID, &CaptureConstraints{
		Width:     t.width,
		Height:    t.height,
		FrameRate: t.rate.CeilFPS(),
		Encoding:  CaptureYUYV,
	})
	if err != nil {
		return nil, nil, err
	}

	frame, err := r.warmUp(ctx, capture, t, cfg.ScaleMode)
	if err != nil {
		capture.Close()
		return nil, nil, err
	}
	return &FrameSource{Kind: CameraTypeWebcam, capture: capture, device: info}, frame.Owned(), nil
}

func (r *resolver) warmUp(ctx context.Context, capture CaptureDevice, t target, mode ScaleMode) (*VideoFrame, error) {
	payload, err := firstCapture(ctx, capture.Frames(), r.warmup)
	if err != nil {
		return nil, err
	}
	if newer, ok := latestCapture(capture.Frames()); ok {
		payload = newer
	}
	return captureSurface(payload, capture.Format(), t.width, t.height, mode, t.format)
}
