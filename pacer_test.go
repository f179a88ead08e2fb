package camemu

import (
	"testing"
	"time"
)

func TestPacer_BlockingReads(t *testing.T) {
	clock := newFakeClock()
	p := newPacer(clock, FrameRate30, 0, 0)
	p.Reset()

	var prev int64
	for i := 0; i < 3; i++ {
		idx, ts, fresh := p.Next(ReadModeWaitNextFrameOn)
		if !fresh {
			t.Fatalf("read %d: blocking read not fresh", i)
		}
		if idx != uint64(i) {
			t.Errorf("read %d: index %d", i, idx)
		}
		if i > 0 && ts-prev != 33333 {
			t.Errorf("read %d: spacing %dus, want 33333", i, ts-prev)
		}
		prev = ts
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps (first read is immediate), got %v", sleeps)
	}
	for _, d := range sleeps {
		if d != 33333*time.Microsecond {
			t.Errorf("slept %v, want 33.333ms", d)
		}
	}
}

func TestPacer_NonBlockingStale(t *testing.T) {
	clock := newFakeClock()
	p := newPacer(clock, FrameRate30, 0, 0)

	idx, ts, fresh := p.Next(ReadModeWaitNextFrameOff)
	if !fresh || idx != 0 || ts != 0 {
		t.Fatalf("first read = (%d, %d, %v), want (0, 0, true)", idx, ts, fresh)
	}

	clock.Advance(10 * time.Millisecond)
	for i := 0; i < 3; i++ {
		idx, ts, fresh = p.Next(ReadModeWaitNextFrameOff)
		if fresh || idx != 0 || ts != 0 {
			t.Fatalf("early read = (%d, %d, %v), want (0, 0, false)", idx, ts, fresh)
		}
	}
	if len(clock.Sleeps()) != 0 {
		t.Fatal("non-blocking read slept")
	}

	clock.Advance(24 * time.Millisecond)
	idx, ts, fresh = p.Next(ReadModeWaitNextFrameOff)
	if !fresh || idx != 1 || ts != 33333 {
		t.Fatalf("due read = (%d, %d, %v), want (1, 33333, true)", idx, ts, fresh)
	}
}

func TestPacer_WithinEpsilonIsDue(t *testing.T) {
	clock := newFakeClock()
	p := newPacer(clock, FrameRate30, 0, 0)
	p.Next(ReadModeWaitNextFrameOff)

	clock.Advance(33333*time.Microsecond - pacingEpsilon/2)
	if _, _, fresh := p.Next(ReadModeWaitNextFrameOff); !fresh {
		t.Error("read within epsilon of the deadline should deliver")
	}
}

func TestPacer_TickDiff(t *testing.T) {
	clock := newFakeClock()
	p := newPacer(clock, FrameRate60, 1000, 5000)

	_, ts, _ := p.Next(ReadModeWaitNextFrameOn)
	if ts != 4000 {
		t.Errorf("first timestamp = %d, want 4000", ts)
	}
	_, ts, _ = p.Next(ReadModeWaitNextFrameOn)
	if ts != 4000+16666 {
		t.Errorf("second timestamp = %d, want %d", ts, 4000+16666)
	}
}

func TestPacer_Reset(t *testing.T) {
	clock := newFakeClock()
	p := newPacer(clock, FrameRate30, 0, 0)
	p.Next(ReadModeWaitNextFrameOn)
	p.Next(ReadModeWaitNextFrameOn)

	p.Reset()
	st := p.State()
	if st.FrameIndex != 0 || st.Interval != 33333 {
		t.Fatalf("state after reset = %+v", st)
	}
	idx, ts, fresh := p.Next(ReadModeWaitNextFrameOn)
	if !fresh || idx != 0 {
		t.Errorf("first read after reset = (%d, %v)", idx, fresh)
	}
	// The clock kept running, so the new session starts where it left off.
	if ts != 33333 {
		t.Errorf("timestamp after reset = %d, want 33333", ts)
	}
}
