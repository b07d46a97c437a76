package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/behaviortracker/internal/core/events/bus"
	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/player"
	"github.com/zeusync/behaviortracker/internal/core/storage"
)

// Message types sent over /ws, in order: one hello, a frame per tick and a
// closing end.
const (
	MessageHello = "hello"
	MessageFrame = "frame"
	MessageEnd   = "end"
)

// Message is the JSON envelope of every websocket message.
type Message struct {
	Type        string        `json:"type"`
	Song        string        `json:"song,omitempty"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Session     string        `json:"session,omitempty"`
	Frame       *player.Frame `json:"frame,omitempty"`
	Frames      int           `json:"frames,omitempty"`
	Truncated   bool          `json:"truncated,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.acquireStream() {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	defer s.streams.Done()

	song, err := s.song(r.URL.Query().Get("song"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	maxTicks := s.config.MaxTicks
	if v := r.URL.Query().Get("max_ticks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "max_ticks must be a positive integer", http.StatusBadRequest)
			return
		}
		maxTicks = min(n, maxTicks)
	}

	clients := atomic.AddInt64(&s.clientCount, 1)
	defer atomic.AddInt64(&s.clientCount, -1)
	if limit := s.config.MaxClients; limit > 0 && clients > int64(limit) {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	defer conn.Close()

	logger := s.logger.With(
		log.String("remote", conn.RemoteAddr().String()),
		log.String("song", song.Name),
	)
	logger.Info("stream opened", log.Int("max_ticks", maxTicks))

	ctx, cancel := context.WithCancel(s.base)
	defer cancel()
	go readPump(conn, cancel)

	summary, err := s.stream(ctx, conn, song, maxTicks, logger)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("stream aborted", log.Int("frames", summary.Frames), log.Error(err))
		}
		return
	}

	_ = s.write(conn, Message{Type: MessageEnd, Frames: summary.Frames, Truncated: summary.Truncated})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "playback ended"),
		time.Now().Add(s.config.WriteTimeout))
	logger.Info("stream closed", log.Int("frames", summary.Frames), log.Bool("truncated", summary.Truncated))
}

// stream plays song on a fresh world, one frame per tick interval.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, song *pattern.Song, maxTicks int, logger log.Log) (player.Summary, error) {
	opts := []player.Option{player.WithLogger(logger)}
	hello := Message{Type: MessageHello, Song: song.Name, Fingerprint: pattern.FingerprintHex(song)}

	var (
		rec *storage.Recorder
		b   bus.EventBus
	)
	if s.store != nil {
		b = s.newBus()
		var err error
		rec, err = storage.NewRecorder(ctx, s.store, b, song, logger)
		if err != nil {
			return player.Summary{}, err
		}
		hello.Session = rec.SessionID()
		opts = append(opts, player.WithEventBus(b, rec.SessionID()))
	}

	p, err := player.New(song, s.newWorld(), opts...)
	if err != nil {
		return player.Summary{}, err
	}
	if err = s.write(conn, hello); err != nil {
		return player.Summary{}, err
	}

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	first := true
	summary, err := p.Stream(ctx, maxTicks, func(f player.Frame) error {
		if !first {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		first = false
		return s.write(conn, Message{Type: MessageFrame, Frame: &f})
	})

	if rec != nil {
		// The stream context may already be cancelled.
		if ferr := rec.Finish(context.Background(), summary.Truncated); ferr != nil {
			logger.Warn("recording incomplete", log.String("session", rec.SessionID()), log.Error(ferr))
		}
		m := b.GetMetrics()
		logger.Debug("recording closed",
			log.String("session", rec.SessionID()),
			log.Uint64("events", m.Published),
			log.Uint64("delivery_errors", m.Errors),
		)
	}
	return summary, err
}

func (s *Server) write(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// readPump drains client messages so control frames are processed, and
// cancels the stream once the client goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
