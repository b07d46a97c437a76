// Package player sequences a song's patterns into tick-by-tick playback
// against a world, producing one Frame per tick.
package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/zeusync/behaviortracker/internal/core/events/bus"
	"github.com/zeusync/behaviortracker/internal/core/interpreter"
	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/world"
)

// State of a playback.
type State uint8

const (
	StatePlaying State = iota
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Position locates playback inside a song. TotalTick never rewinds, not even
// when the song loops.
type Position struct {
	PatternIndex  int `json:"pattern_index"`
	TickInPattern int `json:"tick_in_pattern"`
	TotalTick     int `json:"total_tick"`
}

// Result is the outcome of a bounded playback.
type Result struct {
	Frames []Frame
	// Truncated is set when the tick bound stopped playback before the song
	// finished.
	Truncated bool
}

// Summary describes a streamed playback.
type Summary struct {
	Frames    int
	Truncated bool
}

type Option func(*Player)

func WithLogger(l log.Log) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithEventBus publishes playback events on topic. The topic is also used as
// the event source.
func WithEventBus(b bus.EventBus, topic string) Option {
	return func(p *Player) {
		p.bus = b
		p.topic = topic
	}
}

// Player drives one song against one world. Step is serialized; callers may
// share a Player between goroutines but frames are only ever produced one at
// a time.
type Player struct {
	mu     sync.Mutex
	song   *pattern.Song
	world  *world.World
	interp *interpreter.Interpreter
	pos    Position
	state  State

	logger log.Log
	bus    bus.EventBus
	topic  string
}

// New validates song and positions playback at its first tick.
func New(song *pattern.Song, w *world.World, opts ...Option) (*Player, error) {
	if song == nil {
		return nil, ErrNilSong
	}
	if w == nil {
		return nil, ErrNilWorld
	}
	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("player: song %s: %w", song.Name, err)
	}

	p := &Player{
		song:   song,
		world:  w,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(log.String("component", "player"), log.String("song", song.Name))
	p.interp = interpreter.New(w, interpreter.WithLogger(p.logger))

	var pending []bus.Event
	p.normalize(&pending)
	p.publish(pending)
	return p, nil
}

func (p *Player) Song() *pattern.Song { return p.song }

func (p *Player) World() *world.World { return p.world }

func (p *Player) Position() Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) Finished() bool { return p.State() == StateFinished }

// Step plays one tick. The returned frame is the world as it stood before the
// tick's commands ran. ok is false once the song has finished.
func (p *Player) Step() (Frame, bool) {
	p.mu.Lock()
	frame, pending, ok := p.step()
	p.mu.Unlock()

	p.publish(pending)
	return frame, ok
}

func (p *Player) step() (Frame, []bus.Event, bool) {
	if p.state == StateFinished {
		return Frame{}, nil, false
	}

	pat, err := p.song.Pattern(p.pos.PatternIndex)
	if err != nil {
		// Validated in New; only reachable if the song is mutated during playback.
		p.logger.Error("pattern lookup failed", log.Error(err))
		p.state = StateFinished
		return Frame{}, nil, false
	}

	var pending []bus.Event
	if p.pos.TickInPattern == 0 {
		p.logger.Debug("entering pattern",
			log.String("pattern", pat.Name),
			log.Int("index", p.pos.PatternIndex),
			log.Int("tick", p.pos.TotalTick),
		)
		pending = append(pending, p.event(EventPattern, PatternEvent{Position: p.pos, Pattern: pat.Name}))
	}

	cmds := pat.Tick(p.pos.TickInPattern)

	frame := Frame{
		Tick:         p.pos.TotalTick,
		PatternIndex: p.pos.PatternIndex,
		Pattern:      pat.Name,
		PatternTick:  p.pos.TickInPattern,
		Entities:     p.world.Snapshot(),
		Messages:     p.world.DrainMessages(),
	}
	p.world.ClearSpeech()

	p.interp.ExecuteTick(cmds)

	p.pos.TickInPattern++
	p.pos.TotalTick++
	if p.pos.TickInPattern >= pat.Length {
		p.pos.TickInPattern = 0
		p.pos.PatternIndex++
	}
	pending = append(pending, p.event(EventFrame, frame))
	p.normalize(&pending)

	return frame, pending, true
}

// normalize moves the position onto the next tick that will produce a frame:
// it skips empty patterns, wraps to the loop point or finishes.
func (p *Player) normalize(pending *[]bus.Event) {
	if p.state == StateFinished || p.pos.TickInPattern != 0 {
		return
	}
	seq := p.song.Sequence
	wrapped := false
	for {
		for p.pos.PatternIndex < len(seq) {
			pat := p.song.Patterns[seq[p.pos.PatternIndex]]
			if pat.Length > 0 {
				return
			}
			p.pos.PatternIndex++
		}
		// Validate rejects loops with no ticks, so one wrap always lands.
		if !p.song.Loops() || wrapped {
			p.state = StateFinished
			p.logger.Info("playback finished", log.Int("ticks", p.pos.TotalTick))
			*pending = append(*pending, p.event(EventFinished, PatternEvent{Position: p.pos}))
			return
		}
		wrapped = true
		p.pos.PatternIndex = p.song.LoopPoint
		p.logger.Debug("looping", log.Int("loop_point", p.song.LoopPoint), log.Int("tick", p.pos.TotalTick))
		*pending = append(*pending, p.event(EventLoop, PatternEvent{
			Position: p.pos,
			Pattern:  seq[p.song.LoopPoint],
		}))
	}
}

// RunAll steps until the song finishes or maxTicks frames were produced.
// maxTicks is a hard bound for every song: zero or less yields no frames.
func (p *Player) RunAll(maxTicks int) Result {
	var res Result
	summary, _ := p.Stream(context.Background(), maxTicks, func(f Frame) error {
		res.Frames = append(res.Frames, f)
		return nil
	})
	res.Truncated = summary.Truncated
	return res
}

// Stream is RunAll with a callback per frame. It stops early when ctx is done
// or fn returns an error.
func (p *Player) Stream(ctx context.Context, maxTicks int, fn func(Frame) error) (Summary, error) {
	var s Summary
	for s.Frames < maxTicks {
		if err := ctx.Err(); err != nil {
			s.Truncated = !p.Finished()
			return s, err
		}
		f, ok := p.Step()
		if !ok {
			break
		}
		s.Frames++
		if fn != nil {
			if err := fn(f); err != nil {
				s.Truncated = !p.Finished()
				return s, err
			}
		}
	}
	s.Truncated = !p.Finished()
	return s, nil
}

func (p *Player) event(typ string, data any) bus.Event {
	if p.bus == nil {
		return nil
	}
	return bus.NewEvent(typ, p.topic, data)
}

func (p *Player) publish(events []bus.Event) {
	if p.bus == nil {
		return
	}
	for _, e := range events {
		if e == nil {
			continue
		}
		if err := p.bus.PublishToTopic(p.topic, e); err != nil {
			p.logger.Warn("event delivery failed", log.String("event", e.Type()), log.Error(err))
		}
	}
}
