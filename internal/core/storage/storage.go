// Package storage persists playback recordings: one session per playback and
// the ordered frames it produced.
package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zeusync/behaviortracker/internal/core/player"
)

// Session describes one recorded playback.
type Session struct {
	ID          string    `json:"id"`
	Song        string    `json:"song"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
	Frames      int       `json:"frames"`
	Finished    bool      `json:"finished"`
	Truncated   bool      `json:"truncated"`
}

// StoredFrame is a frame together with the digest computed when it was
// recorded.
type StoredFrame struct {
	Seq    int          `json:"seq"`
	Digest string       `json:"digest"`
	Frame  player.Frame `json:"frame"`
}

// Verify recomputes the frame digest and compares it with the recorded one.
func (f StoredFrame) Verify() error {
	if got := DigestString(f.Frame.Digest()); got != f.Digest {
		return fmt.Errorf("%w: seq %d recorded %s, got %s", ErrDigestMismatch, f.Seq, f.Digest, got)
	}
	return nil
}

// DigestString renders a digest the way stores persist it.
func DigestString(d uint64) string {
	return strconv.FormatUint(d, 16)
}

// Store is a recording backend. Frames of a session are appended in order
// and become read-only once the session is finished.
type Store interface {
	CreateSession(ctx context.Context, song, fingerprint string) (Session, error)
	AppendFrame(ctx context.Context, sessionID string, frame player.Frame) error
	FinishSession(ctx context.Context, sessionID string, truncated bool) error

	Session(ctx context.Context, sessionID string) (Session, error)
	Sessions(ctx context.Context) ([]Session, error)
	Frames(ctx context.Context, sessionID string) ([]StoredFrame, error)

	Close() error
}
