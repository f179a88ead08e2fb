package camemu

import "fmt"

// ReadBuffer holds the caller-supplied destination planes of a read. For
// packed formats only I is used. Slice lengths are hard upper bounds.
type ReadBuffer struct {
	I []byte // Y plane, or the whole packed frame
	U []byte // U (Cb) plane of planar formats
	V []byte // V (Cr) plane of planar formats
}

// NewReadBuffer allocates buffers of exactly the size a read of the given
// guest format and dimensions fills.
func NewReadBuffer(format Format, width, height int) *ReadBuffer {
	switch format {
	case FormatYUV420Planar:
		return &ReadBuffer{
			I: make([]byte, width*height),
			U: make([]byte, width*height/4),
			V: make([]byte, width*height/4),
		}
	case FormatYUV422Planar:
		return &ReadBuffer{
			I: make([]byte, width*height),
			U: make([]byte, (width/2)*height),
			V: make([]byte, (width/2)*height),
		}
	default:
		pf := ResolveFormat(format, DataRangeFull).PixelFormat
		return &ReadBuffer{I: make([]byte, pf.FrameSize(width, height))}
	}
}

// convertFrame copies frame into buf in the guest format and returns the
// number of bytes written. The only error is ErrParam for planar 4:2:2
// buffers that are too small.
func convertFrame(frame *VideoFrame, format Format, buf *ReadBuffer) (int, error) {
	switch {
	case format == FormatYUV420Planar && frame.Format == PixelFormatYV12:
		ySize, cSize := frame.planeOffsets()
		n := copy(buf.I, frame.Data[:ySize])
		n += copy(buf.U, frame.Data[ySize+cSize:ySize+2*cSize])
		n += copy(buf.V, frame.Data[ySize:ySize+cSize])
		return n, nil

	case format == FormatYUV422Planar && frame.Format == PixelFormatYUY2:
		return deinterleaveYUY2(frame.Data, frame.Stride, frame.Width, frame.Height, buf.I, buf.U, buf.V)

	default:
		size := min(frame.Stride*frame.Height, len(frame.Data))
		return copy(buf.I, frame.Data[:size]), nil
	}
}

// checkPlanar422 validates destination planes for a width x height planar 4:2:2 read.
func checkPlanar422(width, height int, y, u, v []byte) error {
	ySize := width * height
	cSize := (width / 2) * height
	if len(y) < ySize || len(u) < cSize || len(v) < cSize {
		return fmt.Errorf("%w: planar 4:2:2 %dx%d needs %d/%d/%d bytes, got %d/%d/%d",
			ErrParam, width, height, ySize, cSize, cSize, len(y), len(u), len(v))
	}
	return nil
}

// deinterleaveYUY2 splits packed Y0 U0 Y1 V0 quadruples into planar Y, U and V.
// Each pixel pair writes two adjacent luma samples and one sample to each
// half-width chroma plane at the pair index.
func deinterleaveYUY2(src []byte, srcStride, width, height int, dstY, dstU, dstV []byte) (int, error) {
	if err := checkPlanar422(width, height, dstY, dstU, dstV); err != nil {
		return 0, err
	}
	half := width / 2
	total := width*height + 2*half*height

	if yuy2ToI422Native(src, srcStride, dstY, width, dstU, half, dstV, half, width, height) {
		return total, nil
	}

	for y := 0; y < height; y++ {
		row := src[y*srcStride:]
		yRow := dstY[y*width:]
		uRow := dstU[y*half:]
		vRow := dstV[y*half:]
		for i := 0; i < half; i++ {
			q := row[i*4 : i*4+4]
			yRow[2*i] = q[0]
			yRow[2*i+1] = q[2]
			uRow[i] = q[1]
			vRow[i] = q[3]
		}
	}
	return total, nil
}

// fillBlank writes the no-frame picture: zero luma (or zero for packed
// formats) and mid-gray chroma planes.
func fillBlank(format Format, width, height int, buf *ReadBuffer) (int, error) {
	switch format {
	case FormatYUV420Planar:
		n := fillBounded(buf.I, width*height, 0)
		n += fillBounded(buf.U, width*height/4, 0x80)
		n += fillBounded(buf.V, width*height/4, 0x80)
		return n, nil

	case FormatYUV422Planar:
		if err := checkPlanar422(width, height, buf.I, buf.U, buf.V); err != nil {
			return 0, err
		}
		n := fillBounded(buf.I, width*height, 0)
		n += fillBounded(buf.U, (width/2)*height, 0x80)
		n += fillBounded(buf.V, (width/2)*height, 0x80)
		return n, nil

	default:
		pf := ResolveFormat(format, DataRangeFull).PixelFormat
		return fillBounded(buf.I, pf.FrameSize(width, height), 0), nil
	}
}

func fillBounded(dst []byte, size int, v byte) int {
	n := min(len(dst), size)
	fill(dst[:n], v)
	return n
}
