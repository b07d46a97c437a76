// Package world holds the mutable simulation state the interpreter acts on:
// entities, global flags, the message log and the gravity/bounds physics.
package world

import (
	"fmt"
	"strconv"

	"github.com/zeusync/behaviortracker/internal/core/systems/physics"
)

const (
	DefaultWidth  = 32
	DefaultHeight = 16
)

// World is the single mutable aggregate of a playback. It is not safe for
// concurrent use; the player serializes access to it.
type World struct {
	Width   int
	Height  int
	Gravity float64
	// Tick counts executed ticks and only ever increases.
	Tick     int
	Entities map[string]*Entity
	Flags    map[string]struct{}
	Messages []string

	projectiles map[int]int
}

// New creates an empty world. Non-positive dimensions fall back to the
// defaults.
func New(width, height int, gravity float64) *World {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &World{
		Width:       width,
		Height:      height,
		Gravity:     gravity,
		Entities:    make(map[string]*Entity),
		Flags:       make(map[string]struct{}),
		projectiles: make(map[int]int),
	}
}

func (w *World) Bounds() physics.Bounds {
	return physics.Bounds{Width: w.Width, Height: w.Height}
}

// AddEntity creates or replaces the named entity.
func (w *World) AddEntity(name, kind string, x, y float64) *Entity {
	e := NewEntity(name, kind, x, y)
	w.Entities[name] = e
	return e
}

func (w *World) Entity(name string) (*Entity, bool) {
	e, ok := w.Entities[name]
	return e, ok
}

// LiveEntity returns the entity only when it exists and is alive.
func (w *World) LiveEntity(name string) (*Entity, bool) {
	e, ok := w.Entities[name]
	if !ok || !e.Alive {
		return nil, false
	}
	return e, true
}

// Kill marks the entity dead without removing it.
func (w *World) Kill(name string) bool {
	e, ok := w.Entities[name]
	if !ok {
		return false
	}
	e.Alive = false
	return true
}

func (w *World) SetFlag(name string) {
	w.Flags[name] = struct{}{}
}

func (w *World) HasFlag(name string) bool {
	_, ok := w.Flags[name]
	return ok
}

// FlagNames returns the global flags in sorted order.
func (w *World) FlagNames() []string {
	return sortedKeys(w.Flags)
}

// Logf appends a message stamped with the current tick.
func (w *World) Logf(format string, args ...any) {
	w.Messages = append(w.Messages, fmt.Sprintf("T%d: ", w.Tick)+fmt.Sprintf(format, args...))
}

// DrainMessages returns the accumulated messages and clears the log.
func (w *World) DrainMessages() []string {
	out := w.Messages
	w.Messages = nil
	if out == nil {
		out = []string{}
	}
	return out
}

// ClearSpeech removes the transient speech text of every entity.
func (w *World) ClearSpeech() {
	for _, e := range w.Entities {
		e.Speech = ""
	}
}

// DirectionTo returns the per-axis unit step from one entity toward another,
// or (0, 0) when either is missing.
func (w *World) DirectionTo(from, to string) physics.Vec2 {
	a, okA := w.Entities[from]
	b, okB := w.Entities[to]
	if !okA || !okB {
		return physics.Vec2{}
	}
	return physics.Direction(a.Position(), b.Position())
}

// Distance between two entities, or ok=false when either is missing.
func (w *World) Distance(a, b string) (float64, bool) {
	ea, okA := w.Entities[a]
	eb, okB := w.Entities[b]
	if !okA || !okB {
		return 0, false
	}
	return ea.Position().Distance(eb.Position()), true
}

// ProjectileName returns a name for a projectile fired during the current
// tick: "bullet_<tick>" for the first, then "bullet_<tick>_<n>".
func (w *World) ProjectileName() string {
	if w.projectiles == nil {
		w.projectiles = make(map[int]int)
	}
	base := KindBullet + "_" + strconv.Itoa(w.Tick)
	for {
		n := w.projectiles[w.Tick]
		w.projectiles[w.Tick] = n + 1
		name := base
		if n > 0 {
			name += "_" + strconv.Itoa(n)
		}
		if _, taken := w.Entities[name]; !taken {
			return name
		}
	}
}

// Step applies one physics step to every live entity.
func (w *World) Step() {
	bounds := w.Bounds()
	for _, e := range w.Entities {
		if !e.Alive {
			continue
		}
		physics.Integrate(e, w.Gravity, bounds)
	}
}

// Advance runs physics and moves the world to the next tick.
func (w *World) Advance() {
	w.Step()
	delete(w.projectiles, w.Tick)
	w.Tick++
}

// Snapshot projects every entity into its renderable fields.
func (w *World) Snapshot() map[string]Snapshot {
	out := make(map[string]Snapshot, len(w.Entities))
	for name, e := range w.Entities {
		out[name] = e.Snapshot()
	}
	return out
}
