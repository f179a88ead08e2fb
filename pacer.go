package camemu

import "time"

// pacingEpsilon is the slack under which a frame counts as due.
const pacingEpsilon = 100 * time.Microsecond

// PacingState is the per-device frame timing. Times are microseconds on the
// device clock, which starts at zero when the device is opened.
type PacingState struct {
	Interval      int64  // microseconds between frames
	Deadline      int64  // when the next frame is due
	LastTimestamp int64  // deadline of the last delivered frame
	FrameIndex    uint64 // index the next delivered frame gets
	primed        bool   // Deadline has been set by a read
}

// Pacer decides, per read, whether a new frame is delivered.
type Pacer struct {
	clock    Clock
	epoch    time.Time
	tickDiff int64
	state    PacingState
}

// newPacer creates a pacer for rate. Reported timestamps are shifted by
// startTick - baseTick so they line up with the caller's reference clock.
func newPacer(clock Clock, rate FrameRate, baseTick, startTick uint64) *Pacer {
	return &Pacer{
		clock:    clock,
		epoch:    clock.Now(),
		tickDiff: int64(startTick - baseTick),
		state:    PacingState{Interval: rate.Interval()},
	}
}

// Reset restarts pacing: index zero and no deadline.
func (p *Pacer) Reset() {
	p.state = PacingState{Interval: p.state.Interval}
}

// State returns a copy of the pacing state.
func (p *Pacer) State() PacingState {
	return p.state
}

func (p *Pacer) now() int64 {
	return p.clock.Now().Sub(p.epoch).Microseconds()
}

// Wait primes the deadline on the first read of a session and returns how
// long until the next frame is due, or zero when it is due now.
func (p *Pacer) Wait() time.Duration {
	now := p.now()
	p.prime(now)
	wait := time.Duration(max(p.state.Deadline-now, 0)) * time.Microsecond
	if wait <= pacingEpsilon {
		return 0
	}
	return wait
}

func (p *Pacer) prime(now int64) {
	if !p.state.primed {
		p.state.Deadline = now
		p.state.primed = true
	}
}

// Advance delivers the due frame and returns its index and timestamp.
func (p *Pacer) Advance() (index uint64, timestamp int64) {
	p.prime(p.now())
	index = p.state.FrameIndex
	p.state.FrameIndex++
	p.state.LastTimestamp = p.state.Deadline
	p.state.Deadline += p.state.Interval
	return index, p.state.LastTimestamp + p.tickDiff
}

// Last returns the index and timestamp of the previously delivered frame.
func (p *Pacer) Last() (index uint64, timestamp int64) {
	if p.state.FrameIndex > 0 {
		index = p.state.FrameIndex - 1
	}
	return index, p.state.LastTimestamp + p.tickDiff
}

// Next gates one read for a single caller. A blocking read sleeps until the
// frame is due; a non-blocking read before the deadline returns Last with
// fresh unset.
func (p *Pacer) Next(mode ReadMode) (index uint64, timestamp int64, fresh bool) {
	if wait := p.Wait(); wait > 0 {
		if mode == ReadModeWaitNextFrameOff {
			index, timestamp = p.Last()
			return index, timestamp, false
		}
		p.clock.Sleep(wait)
	}
	index, timestamp = p.Advance()
	return index, timestamp, true
}
