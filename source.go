package camemu

import "fmt"

// FrameSource is the backend a started device pulls frames from. It is a
// tagged variant: Kind selects which of the other fields are meaningful.
type FrameSource struct {
	Kind CameraType

	// CameraTypeWebcam
	capture CaptureDevice
	device  DeviceInfo

	// CameraTypeImage: file the surface was decoded from
	path string
}

func (s *FrameSource) String() string {
	if s == nil {
		return "none"
	}
	switch s.Kind {
	case CameraTypeWebcam:
		return fmt.Sprintf("webcam %s (%s)", s.device.DeviceID, s.device.Label)
	case CameraTypeImage:
		return fmt.Sprintf("image %s", s.path)
	default:
		return s.Kind.String()
	}
}

// live reports whether the source keeps producing frames after resolution.
func (s *FrameSource) live() bool {
	return s != nil && s.Kind == CameraTypeWebcam && s.capture != nil
}

// Close releases the live capture handle, if any. Static sources hold
// nothing besides the stored surface.
func (s *FrameSource) Close() error {
	if s == nil || s.capture == nil {
		return nil
	}
	err := s.capture.Close()
	s.capture = nil
	return err
}
