package camemu

// Resolution is the guest resolution code.
type Resolution int32

const (
	ResolutionInvalid Resolution = 0
	ResolutionVGA     Resolution = 1 // 640x480
	ResolutionQVGA    Resolution = 2 // 320x240
	ResolutionQQVGA   Resolution = 3 // 160x120
	ResolutionCIF     Resolution = 4 // 352x288
	ResolutionQCIF    Resolution = 5 // 176x144
	ResolutionPSP     Resolution = 6 // 480x272
	ResolutionNGP     Resolution = 7 // 640x360
)

// Size returns the pixel dimensions of the resolution code, or ok=false.
func (r Resolution) Size() (width, height int, ok bool) {
	switch r {
	case ResolutionVGA:
		return 640, 480, true
	case ResolutionQVGA:
		return 320, 240, true
	case ResolutionQQVGA:
		return 160, 120, true
	case ResolutionCIF:
		return 352, 288, true
	case ResolutionQCIF:
		return 176, 144, true
	case ResolutionPSP:
		return 480, 272, true
	case ResolutionNGP:
		return 640, 360, true
	default:
		return 0, 0, false
	}
}
