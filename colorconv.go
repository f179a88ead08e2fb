package camemu

import (
	"image"
	"image/color"
)

// rgbToYUV converts one RGB sample to YCbCr in the given colorspace.
// Anything other than the limited BT.601 range uses full-range BT.601.
func rgbToYUV(r, g, b uint8, cs Colorspace) (y, u, v uint8) {
	if cs != ColorspaceYUVBT601Limited {
		return color.RGBToYCbCr(r, g, b)
	}

	// BT.601 studio swing
	yf := 16.0 + 65.481*float64(r)/255.0 + 128.553*float64(g)/255.0 + 24.966*float64(b)/255.0
	uf := 128.0 - 37.797*float64(r)/255.0 - 74.203*float64(g)/255.0 + 112.0*float64(b)/255.0
	vf := 128.0 + 112.0*float64(r)/255.0 - 93.786*float64(g)/255.0 - 18.214*float64(b)/255.0

	y = uint8(clamp(yf, 16, 235))
	u = uint8(clamp(uf, 16, 240))
	v = uint8(clamp(vf, 16, 240))
	return
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// solidSurface synthesizes a uniform surface of the configured color.
func solidSurface(width, height int, c RGBA, rf ResolvedFormat) *VideoFrame {
	f := NewVideoFrame(width, height, rf.PixelFormat, rf.Colorspace)

	switch rf.PixelFormat {
	case PixelFormatYV12:
		y, u, v := rgbToYUV(c.R(), c.G(), c.B(), rf.Colorspace)
		ySize, cSize := f.planeOffsets()
		fill(f.Data[:ySize], y)
		fill(f.Data[ySize:ySize+cSize], v)
		fill(f.Data[ySize+cSize:ySize+2*cSize], u)
	case PixelFormatYUY2:
		y, u, v := rgbToYUV(c.R(), c.G(), c.B(), rf.Colorspace)
		fillPattern(f.Data, []byte{y, u, y, v})
	case PixelFormatARGB8888:
		fillPattern(f.Data, []byte{c.B(), c.G(), c.R(), c.A()})
	case PixelFormatABGR8888:
		fillPattern(f.Data, []byte{c.R(), c.G(), c.B(), c.A()})
	}
	return f
}

// encodeSurface converts a straight-alpha RGBA image into a host surface of
// the same size.
func encodeSurface(img *image.NRGBA, rf ResolvedFormat) *VideoFrame {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	f := NewVideoFrame(w, h, rf.PixelFormat, rf.Colorspace)

	switch rf.PixelFormat {
	case PixelFormatARGB8888:
		for y := 0; y < h; y++ {
			src := img.Pix[y*img.Stride : y*img.Stride+w*4]
			dst := f.Data[y*f.Stride : y*f.Stride+w*4]
			for x := 0; x < w*4; x += 4 {
				dst[x+0] = src[x+2]
				dst[x+1] = src[x+1]
				dst[x+2] = src[x+0]
				dst[x+3] = src[x+3]
			}
		}
	case PixelFormatABGR8888:
		for y := 0; y < h; y++ {
			copy(f.Data[y*f.Stride:y*f.Stride+w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
		}
	case PixelFormatYUY2:
		encodeYUY2(img, f)
	case PixelFormatYV12:
		encodeYV12(img, f)
	}
	return f
}

// encodeYUY2 expects an even width; each pixel pair shares one U and V
// sample averaged from both pixels.
func encodeYUY2(img *image.NRGBA, f *VideoFrame) {
	w, h := f.Width, f.Height
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		dst := f.Data[y*f.Stride:]
		for x := 0; x+1 < w; x += 2 {
			p := x * 4
			y0, u0, v0 := rgbToYUV(row[p], row[p+1], row[p+2], f.Colorspace)
			y1, u1, v1 := rgbToYUV(row[p+4], row[p+5], row[p+6], f.Colorspace)
			dst[x*2+0] = y0
			dst[x*2+1] = avg2(u0, u1)
			dst[x*2+2] = y1
			dst[x*2+3] = avg2(v0, v1)
		}
	}
}

func encodeYV12(img *image.NRGBA, f *VideoFrame) {
	w, h := f.Width, f.Height
	ySize, cSize := f.planeOffsets()
	yPlane := f.Data[:ySize]
	vPlane := f.Data[ySize : ySize+cSize]
	uPlane := f.Data[ySize+cSize : ySize+2*cSize]
	cw := w / 2

	// Luma
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			yv, _, _ := rgbToYUV(row[x*4], row[x*4+1], row[x*4+2], f.Colorspace)
			yPlane[y*f.Stride+x] = yv
		}
	}

	// Chroma (subsampled 2x2, averaged)
	for cy := 0; cy < h/2; cy++ {
		for cx := 0; cx < cw; cx++ {
			var su, sv int
			for dy := 0; dy < 2; dy++ {
				row := img.Pix[(cy*2+dy)*img.Stride:]
				for dx := 0; dx < 2; dx++ {
					px := (cx*2 + dx) * 4
					_, u, v := rgbToYUV(row[px], row[px+1], row[px+2], f.Colorspace)
					su += int(u)
					sv += int(v)
				}
			}
			uPlane[cy*cw+cx] = uint8((su + 2) / 4)
			vPlane[cy*cw+cx] = uint8((sv + 2) / 4)
		}
	}
}

func avg2(a, b uint8) uint8 {
	return uint8((int(a) + int(b) + 1) / 2)
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}

// fillPattern repeats pattern over b. len(b) need not be a multiple of it.
func fillPattern(b, pattern []byte) {
	if len(b) == 0 {
		return
	}
	n := copy(b, pattern)
	for n < len(b) {
		n += copy(b[n:], b[:n])
	}
}
