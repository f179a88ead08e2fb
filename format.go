package camemu

// Format is the pixel format a guest asks for when opening a device.
// The numeric values are part of the guest API and must not change.
type Format int32

const (
	FormatInvalid      Format = 0
	FormatYUV422Planar Format = 1
	FormatYUV422Packed Format = 2
	FormatYUV420Planar Format = 3
	FormatARGB         Format = 4
	FormatABGR         Format = 5
	FormatRAW8         Format = 6 // accepted, delivered as ARGB
)

func (f Format) String() string {
	switch f {
	case FormatInvalid:
		return "Invalid"
	case FormatYUV422Planar:
		return "YUV422Planar"
	case FormatYUV422Packed:
		return "YUV422Packed"
	case FormatYUV420Planar:
		return "YUV420Planar"
	case FormatARGB:
		return "ARGB"
	case FormatABGR:
		return "ABGR"
	case FormatRAW8:
		return "RAW8"
	default:
		return "Unknown"
	}
}

// DataRange selects the sample range of YUV output.
type DataRange int32

const (
	DataRangeFull         DataRange = 0 // default
	DataRangeBT601Limited DataRange = 1
)

func (r DataRange) String() string {
	switch r {
	case DataRangeFull:
		return "Full"
	case DataRangeBT601Limited:
		return "BT601Limited"
	default:
		return "Unknown"
	}
}

// ResolvedFormat is the host surface layout backing a guest format.
type ResolvedFormat struct {
	PixelFormat PixelFormat
	Colorspace  Colorspace
}

// ResolveFormat maps a guest format and range onto a host surface format.
//
// It never fails: RAW8 and any value it does not know degrade to ARGB8888,
// which is what guests written against the real hardware expect.
func ResolveFormat(format Format, dataRange DataRange) ResolvedFormat {
	switch format {
	case FormatYUV420Planar:
		cs := ColorspaceYUVDefault
		if dataRange == DataRangeBT601Limited {
			cs = ColorspaceYUVBT601Limited
		}
		return ResolvedFormat{PixelFormatYV12, cs}
	case FormatYUV422Planar, FormatYUV422Packed:
		// Planar 4:2:2 is deinterleaved from the packed surface at read time.
		return ResolvedFormat{PixelFormatYUY2, ColorspaceYUVDefault}
	case FormatARGB:
		return ResolvedFormat{PixelFormatARGB8888, ColorspaceRGBDefault}
	case FormatABGR:
		return ResolvedFormat{PixelFormatABGR8888, ColorspaceRGBDefault}
	default:
		return ResolvedFormat{PixelFormatARGB8888, ColorspaceRGBDefault}
	}
}
