package storage

import "errors"

var (
	ErrSessionNotFound = errors.New("storage: session not found")
	ErrSessionFinished = errors.New("storage: session already finished")
	ErrStoreClosed     = errors.New("storage: store closed")
	ErrDigestMismatch  = errors.New("storage: frame digest mismatch")
)
