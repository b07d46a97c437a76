package command

import "errors"

var (
	ErrUnknownVerb  = errors.New("unknown verb")
	ErrBadArguments = errors.New("bad command arguments")
	ErrBadNotation  = errors.New("malformed command notation")
)
