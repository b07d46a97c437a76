package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/behaviortracker/internal/core/events/bus"
	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/storage"
	"github.com/zeusync/behaviortracker/internal/core/world"
)

// Server streams song playbacks to websocket clients. Every connection plays
// on its own world; nothing is shared between streams except the song data,
// which is read-only.
type Server struct {
	config   Config
	logger   log.Log
	songs    map[string]*pattern.Song
	names    []string
	upgrader websocket.Upgrader
	store    storage.Store

	httpServer *http.Server
	listener   net.Listener

	running     int32 // atomic bool
	closed      int32 // atomic bool
	clientCount int64 // atomic

	// base is cancelled by Stop to end every live stream.
	base       context.Context
	cancelBase context.CancelFunc
	// streamMu orders streams.Add against Stop marking the server closed.
	streamMu sync.Mutex
	streams  sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	ListenAddr   string
	TickInterval time.Duration
	// MaxTicks bounds every stream. Clients may ask for less, never more.
	MaxTicks   int
	MaxClients int

	ReadBufferSize  int
	WriteBufferSize int
	WriteTimeout    time.Duration

	WorldWidth   int
	WorldHeight  int
	WorldGravity float64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		TickInterval:    100 * time.Millisecond,
		MaxTicks:        256,
		MaxClients:      1000,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		WriteTimeout:    5 * time.Second,
		WorldWidth:      world.DefaultWidth,
		WorldHeight:     world.DefaultHeight,
		WorldGravity:    0.5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidConfig)
	case c.MaxTicks <= 0:
		return fmt.Errorf("%w: max ticks must be positive", ErrInvalidConfig)
	case c.MaxClients < 0:
		return fmt.Errorf("%w: max clients must not be negative", ErrInvalidConfig)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

type Option func(*Server)

func WithLogger(l log.Log) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore records every stream as a storage session.
func WithStore(st storage.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// NewServer creates a server for the given songs. Song names must be unique.
func NewServer(config Config, songs []*pattern.Song, opts ...Option) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config: config,
		logger: log.NewNop(),
		songs:  make(map[string]*pattern.Song, len(songs)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.String("component", "server"))
	s.base, s.cancelBase = context.WithCancel(context.Background())

	for _, song := range songs {
		if song == nil {
			continue
		}
		if _, dup := s.songs[song.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSong, song.Name)
		}
		if err := song.Validate(); err != nil {
			return nil, fmt.Errorf("song %s: %w", song.Name, err)
		}
		s.songs[song.Name] = song
		s.names = append(s.names, song.Name)
	}
	sort.Strings(s.names)
	return s, nil
}

// Handler exposes the HTTP routes: GET /songs and GET /ws?song=<name>.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/songs", s.handleSongs)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		return fmt.Errorf("%w: %v", ErrListenerFailed, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server started",
		log.String("addr", ln.Addr().String()),
		log.Int("songs", len(s.names)),
	)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", log.Error(err))
		}
	}()
	return nil
}

// Addr is the bound listen address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop ends every stream and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	s.streamMu.Lock()
	atomic.StoreInt32(&s.closed, 1)
	s.streamMu.Unlock()
	s.cancelBase()

	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.streams.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Join(err, ctx.Err())
	}

	s.logger.Info("server stopped")
	return err
}

// acquireStream registers a stream unless Stop has begun. A true result must
// be paired with streams.Done.
func (s *Server) acquireStream() bool {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	if atomic.LoadInt32(&s.closed) == 1 {
		return false
	}
	s.streams.Add(1)
	return true
}

func (s *Server) IsRunning() bool { return atomic.LoadInt32(&s.running) == 1 }

func (s *Server) ClientCount() int { return int(atomic.LoadInt64(&s.clientCount)) }

func (s *Server) Songs() []string { return append([]string(nil), s.names...) }

func (s *Server) song(name string) (*pattern.Song, error) {
	song, ok := s.songs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSongNotFound, name)
	}
	return song, nil
}

func (s *Server) newWorld() *world.World {
	return world.New(s.config.WorldWidth, s.config.WorldHeight, s.config.WorldGravity)
}

func (s *Server) newBus() bus.EventBus { return bus.New() }
