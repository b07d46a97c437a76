package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behaviortracker/internal/core/events/bus"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/player"
	"github.com/zeusync/behaviortracker/internal/core/storage"
	"github.com/zeusync/behaviortracker/internal/core/world"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func demoFrames(t *testing.T) []player.Frame {
	t.Helper()
	p, err := player.New(pattern.DemoSong(), world.New(0, 0, 0.5))
	require.NoError(t, err)
	return p.RunAll(100).Frames
}

func TestSchemaVersion(t *testing.T) {
	s := openMemory(t)
	v, err := GetSchemaVersion(context.Background(), s.db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)

	// Idempotent.
	require.NoError(t, InitSchema(context.Background(), s.db))
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	session, err := s.CreateSession(ctx, "chase", "deadbeef")
	require.NoError(t, err)

	frames := demoFrames(t)
	for _, f := range frames {
		require.NoError(t, s.AppendFrame(ctx, session.ID, f))
	}
	require.NoError(t, s.FinishSession(ctx, session.ID, true))

	got, err := s.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "chase", got.Song)
	assert.Equal(t, "deadbeef", got.Fingerprint)
	assert.Equal(t, len(frames), got.Frames)
	assert.True(t, got.Finished)
	assert.True(t, got.Truncated)
	assert.WithinDuration(t, session.CreatedAt, got.CreatedAt, 0)

	stored, err := s.Frames(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, stored, len(frames))
	for i, sf := range stored {
		assert.Equal(t, i, sf.Seq)
		assert.NoError(t, sf.Verify())
		assert.Equal(t, frames[i].Digest(), sf.Frame.Digest())
	}

	err = s.AppendFrame(ctx, session.ID, frames[0])
	assert.ErrorIs(t, err, storage.ErrSessionFinished)
	assert.ErrorIs(t, s.FinishSession(ctx, session.ID, false), storage.ErrSessionFinished)
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, err := s.Session(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	_, err = s.Frames(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.ErrorIs(t, s.AppendFrame(ctx, "missing", player.Frame{}), storage.ErrSessionNotFound)
}

func TestSessionsListing(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	list, err := s.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	a, err := s.CreateSession(ctx, "a", "1")
	require.NoError(t, err)
	b, err := s.CreateSession(ctx, "b", "2")
	require.NoError(t, err)

	list, err = s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestRecorderRoundTripOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "recordings.db")

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)

	song := pattern.DemoSong()
	b := bus.New()
	rec, err := storage.NewRecorder(ctx, s, b, song, nil)
	require.NoError(t, err)
	p, err := player.New(song, world.New(0, 0, 0.5), player.WithEventBus(b, rec.SessionID()))
	require.NoError(t, err)
	res := p.RunAll(100)
	require.NoError(t, rec.Finish(ctx, res.Truncated))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	stored, err := reopened.Frames(ctx, rec.SessionID())
	require.NoError(t, err)
	replayed := make([]player.Frame, len(stored))
	for i, sf := range stored {
		require.NoError(t, sf.Verify())
		replayed[i] = sf.Frame
	}
	assert.Equal(t, player.DigestFrames(res.Frames), player.DigestFrames(replayed))
}

func TestClosedStore(t *testing.T) {
	s, err := Open(context.Background(), MemoryPath, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.CreateSession(context.Background(), "x", "y")
	assert.ErrorIs(t, err, storage.ErrStoreClosed)
}
