package camemu

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/logging"
)

// DeviceNumber selects one of the emulated cameras.
type DeviceNumber int32

const (
	DeviceFront DeviceNumber = 1
	DeviceBack  DeviceNumber = 2
)

func (n DeviceNumber) String() string {
	switch n {
	case DeviceFront:
		return "front"
	case DeviceBack:
		return "back"
	default:
		return fmt.Sprintf("DeviceNumber(%d)", int32(n))
	}
}

// System is the emulated camera API: a front and a back Device behind the
// init/open/start/read/stop/close call sequence.
type System struct {
	opts *options
	log  logging.LeveledLogger

	mu          sync.Mutex
	cfg         Config
	initialized bool
	front       *Device
	back        *Device
}

// NewSystem creates an uninitialized camera system.
func NewSystem(cfg Config, opts ...Option) *System {
	o := newOptions(opts)
	return &System{
		opts:  o,
		log:   o.loggerFactory.NewLogger(logScope),
		cfg:   cfg,
		front: newDevice(DeviceFront.String(), cfg.Front, o),
		back:  newDevice(DeviceBack.String(), cfg.Back, o),
	}
}

// Init assigns default webcams to sides without a device identifier and
// makes the devices available.
func (s *System) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return ErrAlreadyInit
	}

	cfg := s.cfg
	changed, err := discoverDefaults(ctx, s.opts.provider, &cfg)
	if err != nil {
		s.log.Warnf("device discovery: %v", err)
	}
	if changed {
		s.log.Infof("default devices: front=%s %q, back=%s %q",
			cfg.Front.Type, cfg.Front.DeviceID, cfg.Back.Type, cfg.Back.DeviceID)
		s.cfg = cfg
		s.front.Reconfigure(ctx, cfg.Front)
		s.back.Reconfigure(ctx, cfg.Back)
	}
	s.initialized = true
	return nil
}

// Term closes both devices and returns the system to the uninitialized state.
func (s *System) Term() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInit
	}
	for _, d := range []*Device{s.front, s.back} {
		if d.IsOpen() {
			d.Close()
		}
	}
	s.initialized = false
	return nil
}

// Device returns the device for num.
func (s *System) Device(num DeviceNumber) (*Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceLocked(num)
}

func (s *System) deviceLocked(num DeviceNumber) (*Device, error) {
	if !s.initialized {
		return nil, ErrNotInit
	}
	switch num {
	case DeviceFront:
		return s.front, nil
	case DeviceBack:
		return s.back, nil
	default:
		return nil, fmt.Errorf("%w: device number %d", ErrParam, num)
	}
}

// Open opens device num. See Device.Open.
func (s *System) Open(num DeviceNumber, params OpenParams, baseTick, startTick uint64) error {
	d, err := s.Device(num)
	if err != nil {
		return err
	}
	return d.Open(params, baseTick, startTick)
}

// Start starts device num.
func (s *System) Start(ctx context.Context, num DeviceNumber) error {
	d, err := s.Device(num)
	if err != nil {
		return err
	}
	return d.Start(ctx)
}

// Read reads one frame from device num into buf.
func (s *System) Read(num DeviceNumber, mode ReadMode, buf *ReadBuffer) (ReadResult, error) {
	d, err := s.Device(num)
	if err != nil {
		return ReadResult{Status: StatusNotActive}, err
	}
	return d.Read(mode, buf)
}

// Stop stops device num.
func (s *System) Stop(num DeviceNumber) error {
	d, err := s.Device(num)
	if err != nil {
		return err
	}
	return d.Stop()
}

// Close closes device num.
func (s *System) Close(num DeviceNumber) error {
	d, err := s.Device(num)
	if err != nil {
		return err
	}
	return d.Close()
}

// IsActive reports whether device num is started.
func (s *System) IsActive(num DeviceNumber) (bool, error) {
	d, err := s.Device(num)
	if err != nil {
		return false, err
	}
	return d.IsActive(), nil
}

// Reconfigure replaces the configuration of device num. A started device
// switches backend before Reconfigure returns.
func (s *System) Reconfigure(ctx context.Context, num DeviceNumber, cfg DeviceConfig) error {
	s.mu.Lock()
	d, err := s.deviceLocked(num)
	if err == nil {
		if num == DeviceFront {
			s.cfg.Front = cfg
		} else {
			s.cfg.Back = cfg
		}
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	d.Reconfigure(ctx, cfg)
	return nil
}

// Config returns the configuration last supplied for both devices. Demotions
// are only visible through Device.Config.
func (s *System) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// GetAttribute returns the value of attr for device num.
func (s *System) GetAttribute(num DeviceNumber, attr Attribute) (int32, error) {
	if _, err := s.Device(num); err != nil {
		return 0, err
	}
	return attr.Default()
}

// SetAttribute accepts and ignores a new value for attr.
func (s *System) SetAttribute(num DeviceNumber, attr Attribute, value int32) error {
	if _, err := s.Device(num); err != nil {
		return err
	}
	if _, err := attr.Default(); err != nil {
		return err
	}
	s.log.Tracef("%s: ignoring %s=%d", num, attr, value)
	return nil
}

// DeviceLocation returns which way device num faces.
func (s *System) DeviceLocation(num DeviceNumber) (Position, error) {
	if _, err := s.Device(num); err != nil {
		return PositionUnknown, err
	}
	if num == DeviceBack {
		return PositionBack, nil
	}
	return PositionFront, nil
}
