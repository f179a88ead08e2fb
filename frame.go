// Core frame types shared by the backends, the frame store and the converter.
package camemu

// PixelFormat represents host surface pixel formats.
type PixelFormat int

const (
	PixelFormatYV12     PixelFormat = iota // YUV 4:2:0 planar: Y plane, then V, then U
	PixelFormatYUY2                        // YUV 4:2:2 packed: Y0 U0 Y1 V0
	PixelFormatARGB8888                    // 32-bit 0xAARRGGBB words, little-endian (B,G,R,A in memory)
	PixelFormatABGR8888                    // 32-bit 0xAABBGGRR words, little-endian (R,G,B,A in memory)
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatYV12:
		return "YV12"
	case PixelFormatYUY2:
		return "YUY2"
	case PixelFormatARGB8888:
		return "ARGB8888"
	case PixelFormatABGR8888:
		return "ABGR8888"
	default:
		return "Unknown"
	}
}

// IsYUV reports whether the format stores luma/chroma samples.
func (p PixelFormat) IsYUV() bool {
	return p == PixelFormatYV12 || p == PixelFormatYUY2
}

// Stride returns the pitch in bytes of the first plane for the given width.
func (p PixelFormat) Stride(width int) int {
	switch p {
	case PixelFormatYV12:
		return width
	case PixelFormatYUY2:
		return width * 2
	case PixelFormatARGB8888, PixelFormatABGR8888:
		return width * 4
	default:
		return 0
	}
}

// FrameSize returns the total buffer size for a frame of this format.
func (p PixelFormat) FrameSize(width, height int) int {
	switch p {
	case PixelFormatYV12:
		// Y plane: width * height
		// V and U planes: (width/2) * (height/2) each
		return width*height + 2*(width/2)*(height/2)
	default:
		return p.Stride(width) * height
	}
}

// Colorspace identifies how the samples of a surface are to be interpreted.
type Colorspace int

const (
	ColorspaceRGBDefault      Colorspace = iota // sRGB
	ColorspaceYUVDefault                        // BT.601 full range (JPEG)
	ColorspaceYUVBT601Limited                   // BT.601 studio swing (Y 16..235, C 16..240)
)

func (c Colorspace) String() string {
	switch c {
	case ColorspaceRGBDefault:
		return "RGBDefault"
	case ColorspaceYUVDefault:
		return "YUVDefault"
	case ColorspaceYUVBT601Limited:
		return "BT601Limited"
	default:
		return "Unknown"
	}
}

// VideoFrame is a decoded surface in one contiguous buffer.
// When External is set, Data points at memory owned by someone else (a capture
// driver buffer, a decoder) and must be cloned before it is kept.
type VideoFrame struct {
	Data       []byte      // Pixel data, planes back to back
	Stride     int         // Pitch of the first plane in bytes
	Width      int         // Frame width in pixels
	Height     int         // Frame height in pixels
	Format     PixelFormat // Pixel format
	Colorspace Colorspace  // Sample interpretation
	Timestamp  int64       // Capture timestamp in nanoseconds (0 for static surfaces)
	External   bool        // Data is not owned by this frame
}

// NewVideoFrame allocates a zeroed frame of the given geometry.
func NewVideoFrame(width, height int, format PixelFormat, cs Colorspace) *VideoFrame {
	return &VideoFrame{
		Data:       make([]byte, format.FrameSize(width, height)),
		Stride:     format.Stride(width),
		Width:      width,
		Height:     height,
		Format:     format,
		Colorspace: cs,
	}
}

// Clone creates a deep copy of the video frame.
// Use this when you need to keep the frame data beyond its original lifetime.
func (f *VideoFrame) Clone() *VideoFrame {
	clone := *f
	clone.External = false
	if f.Data != nil {
		clone.Data = make([]byte, len(f.Data))
		copy(clone.Data, f.Data)
	}
	return &clone
}

// Owned returns f itself when it owns its memory, or a deep copy otherwise.
func (f *VideoFrame) Owned() *VideoFrame {
	if f == nil || !f.External {
		return f
	}
	return f.Clone()
}

// planeOffsets returns the byte offsets and sizes of the Y, V and U planes of a
// YV12 surface. The chroma planes follow the luma plane in V, U order.
func (f *VideoFrame) planeOffsets() (ySize, cSize int) {
	ySize = f.Stride * f.Height
	cSize = f.Stride * f.Height / 4
	return ySize, cSize
}
