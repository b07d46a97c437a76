// Package sqlite stores playback recordings in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/player"
	"github.com/zeusync/behaviortracker/internal/core/storage"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
	logger log.Log
}

// Open creates or opens the database at path. Parent directories are created
// as needed.
func Open(ctx context.Context, path string, logger log.Log) (*Store, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	dsn := path + "?_pragma=foreign_keys(1)"
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create store directory: %w", err)
			}
		}
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; also keeps an in-memory database on one connection.
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{
		db:     db,
		path:   path,
		logger: logger.With(log.String("component", "store"), log.String("path", path)),
	}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) CreateSession(ctx context.Context, song, fingerprint string) (storage.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.Session{}, storage.ErrStoreClosed
	}

	session := storage.Session{
		ID:          uuid.NewString(),
		Song:        song,
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, song, fingerprint, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Song, session.Fingerprint, session.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return storage.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	s.logger.Debug("session created", log.String("session", session.ID), log.String("song", song))
	return session, nil
}

func (s *Store) AppendFrame(ctx context.Context, sessionID string, frame player.Frame) error {
	payload, err := player.EncodeFrame(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	digest := storage.DigestString(frame.Digest())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seq, err := openSession(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO frames (session_id, seq, tick, pattern, digest, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, seq, frame.Tick, frame.Pattern, digest, payload)
	if err != nil {
		return fmt.Errorf("failed to insert frame: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE sessions SET frames = frames + 1 WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return tx.Commit()
}

func (s *Store) FinishSession(ctx context.Context, sessionID string, truncated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = openSession(ctx, tx, sessionID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET finished = 1, truncated = ? WHERE id = ?`,
		boolToInt(truncated), sessionID)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return tx.Commit()
}

func (s *Store) Session(ctx context.Context, sessionID string) (storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return storage.Session{}, storage.ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, song, fingerprint, created_at, frames, finished, truncated FROM sessions WHERE id = ?`,
		sessionID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Session{}, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	return session, err
}

func (s *Store) Sessions(ctx context.Context) ([]storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, song, fingerprint, created_at, frames, finished, truncated FROM sessions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []storage.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func (s *Store) Frames(ctx context.Context, sessionID string) ([]storage.StoredFrame, error) {
	if _, err := s.Session(ctx, sessionID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, digest, payload FROM frames WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	var out []storage.StoredFrame
	for rows.Next() {
		var (
			sf      storage.StoredFrame
			payload []byte
		)
		if err := rows.Scan(&sf.Seq, &sf.Digest, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}
		if sf.Frame, err = player.DecodeFrame(payload); err != nil {
			return nil, fmt.Errorf("frame %d: %w", sf.Seq, err)
		}
		out = append(out, sf)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// openSession returns the next frame sequence number of a session that still
// accepts writes.
func openSession(ctx context.Context, tx *sql.Tx, sessionID string) (int, error) {
	var frames, finished int
	err := tx.QueryRowContext(ctx,
		`SELECT frames, finished FROM sessions WHERE id = ?`, sessionID).Scan(&frames, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query session: %w", err)
	}
	if finished != 0 {
		return 0, fmt.Errorf("%w: %s", storage.ErrSessionFinished, sessionID)
	}
	return frames, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (storage.Session, error) {
	var (
		session             storage.Session
		createdAt           string
		finished, truncated int
	)
	err := row.Scan(&session.ID, &session.Song, &session.Fingerprint, &createdAt,
		&session.Frames, &finished, &truncated)
	if err != nil {
		return storage.Session{}, err
	}
	session.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return storage.Session{}, fmt.Errorf("session %s: bad created_at: %w", session.ID, err)
	}
	session.Finished = finished != 0
	session.Truncated = truncated != 0
	return session, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
