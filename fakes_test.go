package camemu

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/pion/logging"
)

// fakeClock only moves when slept or advanced.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.slept...)
}

// fakeCapture is a capture device fed by the test.
type fakeCapture struct {
	frames chan []byte
	format CaptureFormat
	closed bool
}

func newFakeCapture(width, height int) *fakeCapture {
	return &fakeCapture{
		frames: make(chan []byte, 32),
		format: CaptureFormat{Width: width, Height: height, Encoding: CaptureYUYV},
	}
}

func (c *fakeCapture) Frames() <-chan []byte { return c.frames }
func (c *fakeCapture) Format() CaptureFormat { return c.format }
func (c *fakeCapture) Close() error {
	c.closed = true
	return nil
}

// fakeProvider hands out a single fake capture device.
type fakeProvider struct {
	devices     []DeviceInfo
	listErr     error
	openErr     error
	capture     *fakeCapture
	opens       int
	constraints []CaptureConstraints
}

func (p *fakeProvider) ListVideoDevices(ctx context.Context) ([]DeviceInfo, error) {
	return p.devices, p.listErr
}

func (p *fakeProvider) OpenVideoDevice(ctx context.Context, deviceID string, c *CaptureConstraints) (CaptureDevice, error) {
	p.opens++
	p.constraints = append(p.constraints, *c)
	if p.openErr != nil {
		return nil, p.openErr
	}
	if p.capture == nil {
		return nil, errors.New("no capture configured")
	}
	return p.capture, nil
}

func testLoggerFactory() logging.LoggerFactory {
	return &logging.DefaultLoggerFactory{
		Writer:          io.Discard,
		DefaultLogLevel: logging.LogLevelDisabled,
	}
}

func testOptions(p DeviceProvider, clock Clock) []Option {
	return []Option{
		WithDeviceProvider(p),
		WithClock(clock),
		WithLoggerFactory(testLoggerFactory()),
		WithWebcamWarmup(20 * time.Millisecond),
	}
}

// yuyvPayload builds a packed frame where pixel pair i on row y has luma
// 2i+y*16, 2i+1+y*16 and chroma 100+i, 200+i.
func yuyvPayload(width, height int) []byte {
	p := make([]byte, width*2*height)
	for y := 0; y < height; y++ {
		for i := 0; i < width/2; i++ {
			q := p[y*width*2+i*4:]
			q[0] = byte(2*i + y*16)
			q[1] = byte(100 + i)
			q[2] = byte(2*i + 1 + y*16)
			q[3] = byte(200 + i)
		}
	}
	return p
}

// within1 tolerates the rounding of resampling and color conversion.
func within1(got, want byte) bool {
	d := int(got) - int(want)
	return d >= -1 && d <= 1
}

// gatedClock is a fakeClock whose Sleep blocks until the test releases it.
type gatedClock struct {
	*fakeClock
	sleeping chan time.Duration
	release  chan struct{}
}

func newGatedClock() *gatedClock {
	return &gatedClock{
		fakeClock: newFakeClock(),
		sleeping:  make(chan time.Duration, 1),
		release:   make(chan struct{}),
	}
}

func (c *gatedClock) Sleep(d time.Duration) {
	c.sleeping <- d
	<-c.release
	c.fakeClock.Sleep(d)
}
