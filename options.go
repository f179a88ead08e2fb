package camemu

import (
	"time"

	"github.com/pion/logging"
)

const logScope = "camemu"

// options collects the dependencies shared by a System and its devices.
type options struct {
	provider      DeviceProvider
	loggerFactory logging.LoggerFactory
	clock         Clock
	warmup        time.Duration
}

// Option configures a System.
type Option func(*options)

// WithDeviceProvider overrides the globally registered device provider.
func WithDeviceProvider(p DeviceProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithLoggerFactory sets the pion logger factory. The default factory reads
// its levels from the PION_LOG_* environment variables.
func WithLoggerFactory(f logging.LoggerFactory) Option {
	return func(o *options) { o.loggerFactory = f }
}

// WithClock replaces the wall clock used for frame pacing.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithWebcamWarmup sets how long a webcam may take to produce its first frame.
func WithWebcamWarmup(d time.Duration) Option {
	return func(o *options) { o.warmup = d }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.provider == nil {
		o.provider = GetDeviceProvider()
	}
	if o.loggerFactory == nil {
		o.loggerFactory = logging.NewDefaultLoggerFactory()
	}
	if o.clock == nil {
		o.clock = systemClock{}
	}
	if o.warmup <= 0 {
		o.warmup = WebcamWarmup
	}
	return o
}
