package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zeusync/behaviortracker/internal/core/events/bus"
	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/player"
)

// Recorder persists the frames a player publishes on its session topic.
//
//	rec, _ := storage.NewRecorder(ctx, store, b, song, logger)
//	p, _ := player.New(song, w, player.WithEventBus(b, rec.SessionID()))
//	res := p.RunAll(maxTicks)
//	_ = rec.Finish(ctx, res.Truncated)
type Recorder struct {
	ctx     context.Context
	store   Store
	session Session
	sub     bus.Subscription
	logger  log.Log

	mu  sync.Mutex
	err error
}

// NewRecorder opens a session for song and subscribes to its frames. The
// session id doubles as the bus topic the player must publish on.
func NewRecorder(ctx context.Context, store Store, b bus.EventBus, song *pattern.Song, logger log.Log) (*Recorder, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	session, err := store.CreateSession(ctx, song.Name, pattern.FingerprintHex(song))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	r := &Recorder{
		ctx:     ctx,
		store:   store,
		session: session,
		logger:  logger.With(log.String("component", "recorder"), log.String("session", session.ID)),
	}
	r.sub, err = b.SubscribeTopic(session.ID, player.EventFrame, r.onFrame)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return r, nil
}

func (r *Recorder) SessionID() string { return r.session.ID }

// Err returns the first persistence failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Finish unsubscribes and closes the session. It reports the first frame that
// failed to persist.
func (r *Recorder) Finish(ctx context.Context, truncated bool) error {
	_ = r.sub.Cancel()
	ferr := r.store.FinishSession(ctx, r.session.ID, truncated)
	if ferr != nil {
		ferr = fmt.Errorf("finish session: %w", ferr)
	}
	return errors.Join(r.Err(), ferr)
}

func (r *Recorder) onFrame(e bus.Event) error {
	frame, ok := e.Data().(player.Frame)
	if !ok {
		return fmt.Errorf("recorder: unexpected payload %T", e.Data())
	}
	if err := r.store.AppendFrame(r.ctx, r.session.ID, frame); err != nil {
		r.logger.Error("failed to persist frame", log.Int("tick", frame.Tick), log.Error(err))
		r.mu.Lock()
		if r.err == nil {
			r.err = fmt.Errorf("tick %d: %w", frame.Tick, err)
		}
		r.mu.Unlock()
		return err
	}
	return nil
}
