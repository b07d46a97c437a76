package world

import (
	"sort"

	"github.com/zeusync/behaviortracker/internal/core/systems/physics"
)

// Entity kinds used by the interpreter when none is given explicitly.
const (
	KindPlayer = "player"
	KindEnemy  = "enemy"
	KindBullet = "bullet"
)

var _ physics.Body = (*Entity)(nil)

// Entity is a named actor owned by a World. Dead entities are kept so that
// frames can still report their last known position.
type Entity struct {
	Name   string
	Kind   string
	X, Y   float64
	VX, VY float64
	Alive  bool
	Flags  map[string]struct{}
	Speech string
}

func NewEntity(name, kind string, x, y float64) *Entity {
	return &Entity{
		Name:  name,
		Kind:  kind,
		X:     x,
		Y:     y,
		Alive: true,
		Flags: make(map[string]struct{}),
	}
}

func (e *Entity) Position() physics.Vec2 { return physics.Vec2{Xv: e.X, Yv: e.Y} }
func (e *Entity) Velocity() physics.Vec2 { return physics.Vec2{Xv: e.VX, Yv: e.VY} }

func (e *Entity) SetPosition(p physics.Vec2) { e.X, e.Y = p.Xv, p.Yv }
func (e *Entity) SetVelocity(v physics.Vec2) { e.VX, e.VY = v.Xv, v.Yv }

// SetFlag marks the entity with a per-entity flag.
func (e *Entity) SetFlag(name string) {
	if e.Flags == nil {
		e.Flags = make(map[string]struct{})
	}
	e.Flags[name] = struct{}{}
}

func (e *Entity) HasFlag(name string) bool {
	_, ok := e.Flags[name]
	return ok
}

// Snapshot is the renderable projection of an entity captured in a frame.
type Snapshot struct {
	X      float64 `json:"x" cbor:"x"`
	Y      float64 `json:"y" cbor:"y"`
	VX     float64 `json:"vx" cbor:"vx"`
	VY     float64 `json:"vy" cbor:"vy"`
	Alive  bool    `json:"alive" cbor:"alive"`
	Kind   string  `json:"kind" cbor:"kind"`
	Speech string  `json:"speech,omitempty" cbor:"speech,omitempty"`
}

func (e *Entity) Snapshot() Snapshot {
	return Snapshot{
		X:      e.X,
		Y:      e.Y,
		VX:     e.VX,
		VY:     e.VY,
		Alive:  e.Alive,
		Kind:   e.Kind,
		Speech: e.Speech,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
