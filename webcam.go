package camemu

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"time"
)

const (
	// maxDrainFrames bounds how many queued captures a read discards.
	maxDrainFrames = 16

	// WebcamWarmup is how long opening a webcam waits for its first frame.
	WebcamWarmup = 2 * time.Second

	closeDrainTimeout = 2 * time.Second
)

// decodeCapture turns one capture payload into an image.
func decodeCapture(payload []byte, cf CaptureFormat) (image.Image, error) {
	switch cf.Encoding {
	case CaptureYUYV:
		return yuyvImage(payload, cf.Width, cf.Height)
	case CaptureMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to decode MJPEG frame: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported capture encoding %v", cf.Encoding)
	}
}

// yuyvImage wraps a packed YUYV payload as a planar 4:2:2 image.
func yuyvImage(payload []byte, width, height int) (*image.YCbCr, error) {
	stride := width * 2
	if width <= 0 || height <= 0 || width%2 != 0 || len(payload) < stride*height {
		return nil, fmt.Errorf("short YUYV frame: %d bytes for %dx%d", len(payload), width, height)
	}
	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio422)
	if _, err := deinterleaveYUY2(payload, stride, width, height, img.Y, img.Cb, img.Cr); err != nil {
		return nil, err
	}
	return img, nil
}

// captureSurface converts a capture payload into a host surface of the open
// size. A YUYV capture that already matches a YUY2 surface is returned as an
// External frame over the payload; the caller must clone it before keeping it.
func captureSurface(payload []byte, cf CaptureFormat, width, height int, mode ScaleMode, rf ResolvedFormat) (*VideoFrame, error) {
	if cf.Encoding == CaptureYUYV && rf.PixelFormat == PixelFormatYUY2 &&
		cf.Width == width && cf.Height == height && len(payload) >= width*2*height {
		return &VideoFrame{
			Data:       payload[:width*2*height],
			Stride:     width * 2,
			Width:      width,
			Height:     height,
			Format:     PixelFormatYUY2,
			Colorspace: rf.Colorspace,
			External:   true,
		}, nil
	}

	img, err := decodeCapture(payload, cf)
	if err != nil {
		return nil, err
	}
	scaled, err := scaleImage(img, width, height, mode)
	if err != nil {
		return nil, err
	}
	return encodeSurface(scaled, rf), nil
}

// latestCapture drains the frames already queued on ch, up to
// maxDrainFrames, and returns the newest non-empty one. Capture drivers
// queue empty payloads for buffers flagged with an error. It never blocks.
func latestCapture(ch <-chan []byte) ([]byte, bool) {
	var latest []byte
	got := false
	for i := 0; i < maxDrainFrames; i++ {
		select {
		case p, ok := <-ch:
			if !ok {
				return latest, got
			}
			if len(p) > 0 {
				latest, got = p, true
			}
		default:
			return latest, got
		}
	}
	return latest, got
}

// firstCapture waits for the first non-empty frame of a freshly opened
// device.
func firstCapture(ctx context.Context, ch <-chan []byte, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return nil, fmt.Errorf("capture stopped before the first frame")
			}
			if len(p) > 0 {
				return p, nil
			}
		case <-timer.C:
			return nil, fmt.Errorf("no frame within %v", timeout)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// drainUntilClosed discards frames until ch is closed, so a capture goroutine
// blocked on a send can observe cancellation. It reports false on timeout.
func drainUntilClosed(ch <-chan []byte, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return true
			}
		case <-timer.C:
			return false
		}
	}
}
