package camemu

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/logging"
)

// ReadMode selects whether Read waits for the next frame.
type ReadMode int32

const (
	ReadModeWaitNextFrameOn  ReadMode = 0 // block until a new frame is due
	ReadModeWaitNextFrameOff ReadMode = 1 // return immediately
)

// Status is reported with every read.
type Status int32

const (
	StatusActive                      Status = 0
	StatusNotActive                   Status = 1
	StatusForcedStop                  Status = 2
	StatusForcedStopPowerConfigChange Status = 3
	StatusAlreadyRead                 Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusNotActive:
		return "not active"
	case StatusForcedStop:
		return "forced stop"
	case StatusForcedStopPowerConfigChange:
		return "forced stop (power config change)"
	case StatusAlreadyRead:
		return "already read"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// OpenParams are fixed from Open until the next Open.
type OpenParams struct {
	Resolution Resolution // used when Width and Height are zero
	Width      int
	Height     int
	Format     Format
	Range      DataRange
	FrameRate  FrameRate
}

// ReadResult describes one read.
type ReadResult struct {
	FrameIndex uint64
	Timestamp  int64 // microseconds on the caller's reference clock
	Status     Status
	Size       int // bytes written into the read buffer
}

// FrameTap observes every newly delivered frame. It runs under the frame
// store lock and must not retain the frame.
type FrameTap interface {
	OnFrame(frame *VideoFrame, index uint64, timestamp int64)
}

// Device is one emulated camera.
type Device struct {
	name     string
	resolver *resolver
	clock    Clock
	log      logging.LeveledLogger

	mu       sync.Mutex
	cfg      DeviceConfig
	params   OpenParams
	format   ResolvedFormat
	opened   bool
	started  bool
	pacer    *Pacer
	store    FrameStore
	tap      FrameTap
	warnedNF bool
}

// NewDevice creates a closed device with the given configuration.
func NewDevice(name string, cfg DeviceConfig, opts ...Option) *Device {
	return newDevice(name, cfg, newOptions(opts))
}

func newDevice(name string, cfg DeviceConfig, o *options) *Device {
	log := o.loggerFactory.NewLogger(logScope)
	return &Device{
		name:     name,
		cfg:      cfg,
		clock:    o.clock,
		log:      log,
		resolver: &resolver{provider: o.provider, warmup: o.warmup, log: log},
	}
}

// Open validates params and prepares frame pacing. baseTick and startTick
// align reported timestamps with the caller's clock.
func (d *Device) Open(params OpenParams, baseTick, startTick uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opened {
		return ErrAlreadyOpen
	}
	if err := normalizeParams(&params); err != nil {
		return err
	}

	d.params = params
	d.format = ResolveFormat(params.Format, params.Range)
	d.pacer = newPacer(d.clock, params.FrameRate, baseTick, startTick)
	d.opened = true
	d.log.Debugf("%s: opened %dx%d %s/%s at %s -> %s/%s", d.name, params.Width, params.Height,
		params.Format, params.Range, params.FrameRate, d.format.PixelFormat, d.format.Colorspace)
	return nil
}

func normalizeParams(p *OpenParams) error {
	if p.FrameRate <= 0 {
		return fmt.Errorf("%w: %d", ErrBadFramerate, p.FrameRate)
	}
	if p.Format <= FormatInvalid || p.Format > FormatRAW8 {
		return fmt.Errorf("%w: %d", ErrFormatUnknown, p.Format)
	}
	if p.Width == 0 && p.Height == 0 {
		w, h, ok := p.Resolution.Size()
		if !ok {
			return fmt.Errorf("%w: %d", ErrResolutionUnknown, p.Resolution)
		}
		p.Width, p.Height = w, h
	}
	if p.Width <= 0 || p.Height <= 0 || p.Width%2 != 0 || p.Height%2 != 0 {
		return fmt.Errorf("%w: size %dx%d", ErrParam, p.Width, p.Height)
	}
	return nil
}

// Start resolves the backend and resets pacing.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.opened {
		return ErrNotOpen
	}
	if d.started {
		return ErrAlreadyStart
	}
	d.refresh(ctx)
	d.pacer.Reset()
	d.warnedNF = false
	d.started = true
	return nil
}

// refresh replaces the frame source from the current configuration.
func (d *Device) refresh(ctx context.Context) {
	t := target{
		width:  d.params.Width,
		height: d.params.Height,
		rate:   d.params.FrameRate,
		format: d.format,
	}
	d.store.Refresh(func() (*FrameSource, *VideoFrame) {
		return d.resolver.resolve(ctx, d.name, &d.cfg, t)
	})
}

// Read gates the call on the frame pacer and, when a new frame is due,
// writes it into buf in the opened format. A blocking read sleeps without
// holding the device lock; a read whose device was stopped during the wait
// fails with ErrNotStart.
func (d *Device) Read(mode ReadMode, buf *ReadBuffer) (ReadResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if status, err := d.checkReadLocked(buf); err != nil {
		return ReadResult{Status: status}, err
	}

	if wait := d.pacer.Wait(); wait > 0 {
		if mode == ReadModeWaitNextFrameOff {
			index, ts := d.pacer.Last()
			return ReadResult{FrameIndex: index, Timestamp: ts, Status: StatusAlreadyRead}, nil
		}
		d.mu.Unlock()
		d.clock.Sleep(wait)
		d.mu.Lock()
		if status, err := d.checkReadLocked(buf); err != nil {
			return ReadResult{Status: status}, err
		}
	}

	index, ts := d.pacer.Advance()
	res := ReadResult{FrameIndex: index, Timestamp: ts, Status: StatusActive}

	err := d.store.View(func(src *FrameSource, frame *VideoFrame) (*VideoFrame, error) {
		if src.live() {
			frame = d.pollCapture(src, frame)
		}
		if frame == nil {
			if !d.warnedNF {
				d.log.Warnf("%s: no frame available, delivering a blank picture", d.name)
				d.warnedNF = true
			}
			n, err := fillBlank(d.params.Format, d.params.Width, d.params.Height, buf)
			res.Size = n
			return nil, err
		}

		n, err := convertFrame(frame, d.params.Format, buf)
		res.Size = n
		if err == nil && d.tap != nil {
			d.tap.OnFrame(frame, index, ts)
		}
		return frame, err
	})
	return res, err
}

// checkReadLocked validates the device state and buf against the open
// parameters. Rejected reads consume no frame.
func (d *Device) checkReadLocked(buf *ReadBuffer) (Status, error) {
	if !d.opened {
		return StatusNotActive, ErrNotOpen
	}
	if !d.started {
		return StatusNotActive, ErrNotStart
	}
	if buf == nil {
		return StatusActive, fmt.Errorf("%w: nil read buffer", ErrParam)
	}
	if d.params.Format == FormatYUV422Planar {
		if err := checkPlanar422(d.params.Width, d.params.Height, buf.I, buf.U, buf.V); err != nil {
			return StatusActive, err
		}
	}
	return StatusActive, nil
}

// pollCapture returns the newest queued capture as a surface, or frame when
// nothing new arrived or the capture could not be converted.
func (d *Device) pollCapture(src *FrameSource, frame *VideoFrame) *VideoFrame {
	payload, ok := latestCapture(src.capture.Frames())
	if !ok {
		return frame
	}
	next, err := captureSurface(payload, src.capture.Format(), d.params.Width, d.params.Height, d.cfg.ScaleMode, d.format)
	if err != nil {
		d.log.Debugf("%s: dropping capture: %v", d.name, err)
		return frame
	}
	return next
}

// Stop releases the backend and the current frame.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *Device) stopLocked() error {
	if !d.opened {
		return ErrNotOpen
	}
	if !d.started {
		return ErrNotStart
	}
	d.started = false
	if err := d.store.Clear(); err != nil {
		d.log.Warnf("%s: closing capture: %v", d.name, err)
	}
	return nil
}

// Close stops the device if needed. The open parameters are kept until the
// next Open.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.opened {
		return ErrNotOpen
	}
	if d.started {
		d.stopLocked()
	}
	d.opened = false
	return nil
}

// Reconfigure stores cfg. If it differs from the current configuration and
// the device is started, the backend is resolved again before returning.
func (d *Device) Reconfigure(ctx context.Context, cfg DeviceConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cfg == d.cfg {
		return
	}
	d.cfg = cfg
	if d.started {
		d.refresh(ctx)
	}
}

// Config returns the effective configuration, including any demotion.
func (d *Device) Config() DeviceConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Params returns the parameters of the last Open.
func (d *Device) Params() OpenParams {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params
}

// Backend returns the kind of the active frame source.
func (d *Device) Backend() (CameraType, bool) {
	return d.store.Kind()
}

// IsOpen reports whether the device is open.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened
}

// IsActive reports whether the device is started.
func (d *Device) IsActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// SetFrameTap installs tap, or removes it when tap is nil.
func (d *Device) SetFrameTap(tap FrameTap) {
	d.mu.Lock()
	d.tap = tap
	d.mu.Unlock()
}
