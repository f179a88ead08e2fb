package camemu

import "sync"

// FrameStore owns the current frame and the source it came from. Every
// access holds the same mutex, so readers see either the old or the new
// frame and never a source that is being replaced.
type FrameStore struct {
	mu     sync.Mutex
	source *FrameSource
	frame  *VideoFrame
}

// Refresh closes the current source, then installs whatever resolve
// produces. resolve runs under the lock; the old source is released before
// it is called so a webcam can be reopened by the new one.
func (s *FrameStore) Refresh(resolve func() (*FrameSource, *VideoFrame)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.source.Close()
	s.source, s.frame = nil, nil

	src, frame := resolve()
	s.source = src
	s.frame = frame.Owned()
}

// Swap replaces the current frame, keeping the source.
func (s *FrameStore) Swap(frame *VideoFrame) {
	s.mu.Lock()
	s.frame = frame.Owned()
	s.mu.Unlock()
}

// View calls fn with the current source and frame under the lock. Neither
// may be retained after fn returns. fn may return a replacement frame, which
// is installed before the lock is released.
func (s *FrameStore) View(fn func(src *FrameSource, frame *VideoFrame) (*VideoFrame, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.source, s.frame)
	if next != nil && next != s.frame {
		s.frame = next.Owned()
	}
	return err
}

// Kind returns the kind of the installed source.
func (s *FrameStore) Kind() (CameraType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return 0, false
	}
	return s.source.Kind, true
}

// Clear releases the source and the frame.
func (s *FrameStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.source.Close()
	s.source, s.frame = nil, nil
	return err
}
