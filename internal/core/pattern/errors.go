package pattern

import "errors"

// Authoring errors. They surface when a song is built or loaded, never
// during playback.
var (
	ErrUnknownPattern   = errors.New("sequence references unknown pattern")
	ErrLoopOutOfRange   = errors.New("loop point outside sequence")
	ErrEmptyLoop        = errors.New("looped section has no ticks")
	ErrNegativeLength   = errors.New("pattern length is negative")
	ErrDuplicatePattern = errors.New("duplicate pattern name")
	ErrUnnamedPattern   = errors.New("pattern has no name")
	ErrSequenceIndex    = errors.New("sequence index out of range")
)
