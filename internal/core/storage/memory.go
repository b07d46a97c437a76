package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/behaviortracker/internal/core/player"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps recordings in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	frames   map[string][]StoredFrame
	closed   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		frames:   make(map[string][]StoredFrame),
	}
}

func (m *MemoryStore) CreateSession(_ context.Context, song, fingerprint string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Session{}, ErrStoreClosed
	}
	s := &Session{
		ID:          uuid.NewString(),
		Song:        song,
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
	}
	m.sessions[s.ID] = s
	return *s, nil
}

func (m *MemoryStore) AppendFrame(_ context.Context, sessionID string, frame player.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.open(sessionID)
	if err != nil {
		return err
	}
	m.frames[sessionID] = append(m.frames[sessionID], StoredFrame{
		Seq:    s.Frames,
		Digest: DigestString(frame.Digest()),
		Frame:  frame,
	})
	s.Frames++
	return nil
}

func (m *MemoryStore) FinishSession(_ context.Context, sessionID string, truncated bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.open(sessionID)
	if err != nil {
		return err
	}
	s.Finished = true
	s.Truncated = truncated
	return nil
}

func (m *MemoryStore) Session(_ context.Context, sessionID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Session{}, ErrStoreClosed
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *s, nil
}

func (m *MemoryStore) Sessions(_ context.Context) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Frames(_ context.Context, sessionID string) ([]StoredFrame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	if _, ok := m.sessions[sessionID]; !ok {
		return nil, ErrSessionNotFound
	}
	return append([]StoredFrame(nil), m.frames[sessionID]...), nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// open returns a session that still accepts writes. Callers hold m.mu.
func (m *MemoryStore) open(sessionID string) (*Session, error) {
	if m.closed {
		return nil, ErrStoreClosed
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Finished {
		return nil, ErrSessionFinished
	}
	return s, nil
}
