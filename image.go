package camemu

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeImageFile decodes a still image in any registered format.
func decodeImageFile(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("no image path configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: empty %s image", path, format)
	}
	return img, nil
}

// imageSurface decodes path and fits it to width x height in rf.
func imageSurface(path string, width, height int, mode ScaleMode, rf ResolvedFormat) (*VideoFrame, error) {
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}
	scaled, err := scaleImage(img, width, height, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to scale %s: %w", path, err)
	}
	return encodeSurface(scaled, rf), nil
}
