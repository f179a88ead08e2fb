package camemu

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"gopkg.in/yaml.v3"
)

// ScaleMode defines how scaling should handle aspect ratio mismatches.
type ScaleMode int

const (
	// ScaleModeFill scales to fill target dimensions, preserving aspect ratio (may crop).
	// It is the zero value, matching an omitted scale_mode in YAML.
	ScaleModeFill ScaleMode = iota
	// ScaleModeFit scales to fit within target dimensions, preserving aspect ratio (letterboxed in black).
	ScaleModeFit
	// ScaleModeStretch scales to exactly match target dimensions (may distort).
	ScaleModeStretch
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleModeFit:
		return "fit"
	case ScaleModeFill:
		return "fill"
	case ScaleModeStretch:
		return "stretch"
	default:
		return "unknown"
	}
}

// MarshalYAML implements yaml.Marshaler.
func (m ScaleMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *ScaleMode) UnmarshalYAML(node *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(node.Value)) {
	case "fit":
		*m = ScaleModeFit
	case "fill", "":
		*m = ScaleModeFill
	case "stretch":
		*m = ScaleModeStretch
	default:
		return fmt.Errorf("unknown scale mode %q", node.Value)
	}
	return nil
}

// scaleImage resamples img to exactly dstW x dstH straight-alpha RGBA.
// Images already at the target size are only converted.
func scaleImage(img image.Image, dstW, dstH int, mode ScaleMode) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("cannot scale empty image")
	}
	if dstW <= 0 || dstH <= 0 {
		return nil, fmt.Errorf("cannot scale to %dx%d", dstW, dstH)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	if b.Dx() == dstW && b.Dy() == dstH {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst, nil
	}

	src := calculateSourceRegion(b, dstW, dstH, mode)
	target := dst.Bounds()
	if mode == ScaleModeFit {
		// Opaque black bars around the fitted picture.
		draw.Draw(dst, target, image.NewUniform(image.Black), image.Point{}, draw.Src)
		w, h := CalculateScaledSize(b.Dx(), b.Dy(), dstW, dstH, mode)
		x0 := (dstW - w) / 2
		y0 := (dstH - h) / 2
		target = image.Rect(x0, y0, x0+w, y0+h)
	}
	xdraw.ApproxBiLinear.Scale(dst, target, img, src, xdraw.Src, nil)
	return dst, nil
}

// calculateSourceRegion determines what region of the source to use based on scale mode.
func calculateSourceRegion(b image.Rectangle, dstW, dstH int, mode ScaleMode) image.Rectangle {
	if mode != ScaleModeFill {
		return b
	}

	// Crop source to match target aspect ratio
	srcW, srcH := b.Dx(), b.Dy()
	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(dstW) / float64(dstH)

	if srcAspect > dstAspect {
		// Source is wider, crop horizontally
		newW := int(float64(srcH) * dstAspect)
		x := b.Min.X + (srcW-newW)/2
		return image.Rect(x, b.Min.Y, x+newW, b.Max.Y)
	} else if srcAspect < dstAspect {
		// Source is taller, crop vertically
		newH := int(float64(srcW) / dstAspect)
		y := b.Min.Y + (srcH-newH)/2
		return image.Rect(b.Min.X, y, b.Max.X, y+newH)
	}
	return b
}

// CalculateScaledSize returns the output dimensions when scaling with a given mode.
// This is useful for determining letterbox dimensions in ScaleModeFit.
func CalculateScaledSize(srcW, srcH, maxW, maxH int, mode ScaleMode) (w, h int) {
	switch mode {
	case ScaleModeFit:
		srcAspect := float64(srcW) / float64(srcH)
		dstAspect := float64(maxW) / float64(maxH)

		if srcAspect > dstAspect {
			// Source is wider, fit to width
			w = maxW
			h = int(float64(maxW) / srcAspect)
		} else {
			// Source is taller, fit to height
			h = maxH
			w = int(float64(maxH) * srcAspect)
		}
		// Ensure even dimensions for YUV
		w = (w + 1) &^ 1
		h = (h + 1) &^ 1
		if w > maxW {
			w = maxW
		}
		if h > maxH {
			h = maxH
		}
		return w, h

	default:
		return maxW, maxH
	}
}
