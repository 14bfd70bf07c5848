package midi

import (
	"errors"
	"strconv"
)

var (
	ErrBadMagic     = errors.New("missing MThd header")
	ErrBadLength    = errors.New("event length out of range")
	ErrUnknownEvent = errors.New("unknown event type")
	ErrTrackOverrun = errors.New("event overruns track")
)

// A SyntaxError is the reason the parser returned StatusError.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return "offset " + strconv.Itoa(e.Offset) + ": " + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error { return e.Err }
