package camemu

import (
	"errors"
	"fmt"
)

// Error is a camera error carrying the code reported to the guest.
type Error struct {
	Code uint32
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("camera: %s (0x%08X)", e.msg, e.Code)
}

// Sentinel errors. Compare with errors.Is; wrapped errors keep their code.
var (
	ErrParam             = &Error{0x802E0000, "invalid parameter"}
	ErrAlreadyInit       = &Error{0x802E0001, "already initialized"}
	ErrNotInit           = &Error{0x802E0002, "not initialized"}
	ErrAlreadyOpen       = &Error{0x802E0003, "device already open"}
	ErrNotOpen           = &Error{0x802E0004, "device not open"}
	ErrAlreadyStart      = &Error{0x802E0005, "device already started"}
	ErrNotStart          = &Error{0x802E0006, "device not started"}
	ErrFormatUnknown     = &Error{0x802E0007, "unknown format"}
	ErrResolutionUnknown = &Error{0x802E0008, "unknown resolution"}
	ErrBadFramerate      = &Error{0x802E0009, "bad frame rate"}
)

// ErrorCode returns the guest error code for err, or 0 for nil.
// Errors that do not wrap an *Error map to ErrParam's code.
func ErrorCode(err error) uint32 {
	if err == nil {
		return 0
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrParam.Code
}
