package camemu

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/pion/logging"
	"github.com/pion/rtp"
	"github.com/pion/sdp/v3"
)

const (
	// DefaultMTU is the default maximum transmission unit for preview RTP.
	DefaultMTU = 1200

	// DefaultPreviewPayloadType is a dynamic payload type for raw video.
	DefaultPreviewPayloadType = 96

	previewClockRate = 90000
	rtpHeaderSize    = 12
	lineHeaderSize   = 6
)

// Sampling is an RFC 4175 sampling name.
type Sampling string

const (
	SamplingYCbCr422 Sampling = "YCbCr-4:2:2"
	SamplingRGBA     Sampling = "RGBA"
)

// pgroup returns the bytes and pixels of one RFC 4175 pixel group.
func (s Sampling) pgroup() (size, pixels int) {
	if s == SamplingYCbCr422 {
		return 4, 2
	}
	return 4, 1
}

// previewSampling picks the transport sampling for a host surface. YUV
// surfaces travel as 8-bit 4:2:2, RGB surfaces as RGBA.
func previewSampling(pf PixelFormat) Sampling {
	if pf.IsYUV() {
		return SamplingYCbCr422
	}
	return SamplingRGBA
}

// PreviewSender streams delivered frames as RFC 4175 raw video over RTP. It
// implements FrameTap.
type PreviewSender struct {
	w           io.Writer
	ssrc        uint32
	payloadType uint8
	mtu         int
	sequencer   rtp.Sequencer
	log         logging.LeveledLogger

	mu      sync.Mutex
	line    []byte
	frames  uint64
	packets uint64
	errs    uint64
}

// NewPreviewSender creates a sender writing marshaled packets to w, one
// packet per Write.
func NewPreviewSender(w io.Writer, ssrc uint32, pt uint8, mtu int, lf logging.LoggerFactory) *PreviewSender {
	if mtu <= 0 {
		mtu = DefaultMTU
	}
	if lf == nil {
		lf = logging.NewDefaultLoggerFactory()
	}
	return &PreviewSender{
		w:           w,
		ssrc:        ssrc,
		payloadType: pt,
		mtu:         mtu,
		sequencer:   rtp.NewRandomSequencer(),
		log:         lf.NewLogger(logScope),
	}
}

// OnFrame implements FrameTap.
func (s *PreviewSender) OnFrame(frame *VideoFrame, index uint64, timestamp int64) {
	packets, err := s.Packetize(frame, timestamp)
	if err != nil {
		s.log.Debugf("preview: frame %d: %v", index, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	for _, pkt := range packets {
		raw, err := pkt.Marshal()
		if err == nil {
			_, err = s.w.Write(raw)
		}
		if err != nil {
			if s.errs == 0 {
				s.log.Warnf("preview: write failed: %v", err)
			}
			s.errs++
			return
		}
		s.packets++
	}
}

// Stats returns the number of frames and packets sent and write errors.
func (s *PreviewSender) Stats() (frames, packets, errs uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames, s.packets, s.errs
}

// Packetize splits a frame into RFC 4175 packets. timestamp is in
// microseconds; the last packet of the frame carries the marker bit.
func (s *PreviewSender) Packetize(frame *VideoFrame, timestamp int64) ([]*rtp.Packet, error) {
	if frame == nil || frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("empty frame")
	}
	sampling := previewSampling(frame.Format)
	pgSize, pgPixels := sampling.pgroup()
	lineBytes := frame.Width / pgPixels * pgSize
	maxPayload := s.mtu - rtpHeaderSize
	if maxPayload < 2+lineHeaderSize+pgSize {
		return nil, fmt.Errorf("mtu %d too small", s.mtu)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cap(s.line) < lineBytes {
		s.line = make([]byte, lineBytes)
	}
	line := s.line[:lineBytes]
	ts := uint32(timestamp * previewClockRate / 1_000_000)

	type segment struct {
		row, offset, length int
	}

	var packets []*rtp.Packet
	row, offset := 0, 0 // offset in bytes within the row
	loaded := -1
	for row < frame.Height {
		avail := maxPayload - 2
		var segs []segment
		for row < frame.Height && avail >= lineHeaderSize+pgSize {
			n := min(lineBytes-offset, (avail-lineHeaderSize)/pgSize*pgSize)
			segs = append(segs, segment{row, offset, n})
			avail -= lineHeaderSize + n
			offset += n
			if offset == lineBytes {
				row++
				offset = 0
			}
		}

		size := 2 + len(segs)*lineHeaderSize
		for _, sg := range segs {
			size += sg.length
		}
		payload := make([]byte, size)

		seq := s.sequencer.NextSequenceNumber()
		binary.BigEndian.PutUint16(payload, uint16(s.sequencer.RollOverCount()))
		hdr := payload[2:]
		data := payload[2+len(segs)*lineHeaderSize:]
		for i, sg := range segs {
			binary.BigEndian.PutUint16(hdr[0:], uint16(sg.length))
			binary.BigEndian.PutUint16(hdr[2:], uint16(sg.row)&0x7FFF)
			off := uint16(sg.offset/pgSize*pgPixels) & 0x7FFF
			if i < len(segs)-1 {
				off |= 0x8000 // continuation
			}
			binary.BigEndian.PutUint16(hdr[4:], off)
			hdr = hdr[lineHeaderSize:]

			if loaded != sg.row {
				previewLine(frame, sg.row, line)
				loaded = sg.row
			}
			data = data[copy(data, line[sg.offset:sg.offset+sg.length]):]
		}

		packets = append(packets, &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         row == frame.Height,
				PayloadType:    s.payloadType,
				SequenceNumber: seq,
				Timestamp:      ts,
				SSRC:           s.ssrc,
			},
			Payload: payload,
		})
	}
	return packets, nil
}

// previewLine writes scanline y of frame into dst in transport order: Cb Y0
// Cr Y1 for YUV surfaces, R G B A for RGB ones.
func previewLine(frame *VideoFrame, y int, dst []byte) {
	w := frame.Width
	switch frame.Format {
	case PixelFormatYUY2:
		src := frame.Data[y*frame.Stride:]
		for x := 0; x+1 < w; x += 2 {
			q := src[x*2 : x*2+4]
			d := dst[x*2 : x*2+4]
			d[0], d[1], d[2], d[3] = q[1], q[0], q[3], q[2]
		}
	case PixelFormatYV12:
		ySize, cSize := frame.planeOffsets()
		cStride := frame.Stride / 2
		yRow := frame.Data[y*frame.Stride:]
		vRow := frame.Data[ySize+(y/2)*cStride:]
		uRow := frame.Data[ySize+cSize+(y/2)*cStride:]
		for x := 0; x+1 < w; x += 2 {
			d := dst[x*2 : x*2+4]
			d[0], d[1], d[2], d[3] = uRow[x/2], yRow[x], vRow[x/2], yRow[x+1]
		}
	case PixelFormatARGB8888:
		src := frame.Data[y*frame.Stride:]
		for x := 0; x < w; x++ {
			p := src[x*4 : x*4+4]
			d := dst[x*4 : x*4+4]
			d[0], d[1], d[2], d[3] = p[2], p[1], p[0], p[3]
		}
	default:
		copy(dst[:w*4], frame.Data[y*frame.Stride:])
	}
}

// PreviewSDP describes a preview stream sent to host:port so that a
// receiver (ffplay, GStreamer) can play it.
func PreviewSDP(host string, port int, pt uint8, width, height int, pf PixelFormat) ([]byte, error) {
	sampling := previewSampling(pf)
	sd := &sdp.SessionDescription{
		Version: 0,
		Origin: sdp.Origin{
			Username:       "-",
			SessionID:      1,
			SessionVersion: 1,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: host,
		},
		SessionName: "camemu preview",
		ConnectionInformation: &sdp.ConnectionInformation{
			NetworkType: "IN",
			AddressType: "IP4",
			Address:     &sdp.Address{Address: host},
		},
		TimeDescriptions: []sdp.TimeDescription{{Timing: sdp.Timing{}}},
	}

	format := strconv.Itoa(int(pt))
	md := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   "video",
			Port:    sdp.RangedPort{Value: port},
			Protos:  []string{"RTP", "AVP"},
			Formats: []string{format},
		},
	}
	md.WithValueAttribute("rtpmap", fmt.Sprintf("%d raw/%d", pt, previewClockRate))
	md.WithValueAttribute("fmtp", fmt.Sprintf("%d sampling=%s; width=%d; height=%d; depth=8; colorimetry=BT601-5",
		pt, sampling, width, height))
	sd.WithMedia(md)
	return sd.Marshal()
}
