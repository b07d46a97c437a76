// Package interpreter executes behavior commands against a world.
package interpreter

import (
	"fmt"
	"strings"

	"github.com/zeusync/behaviortracker/internal/core/command"
	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/systems/physics"
	"github.com/zeusync/behaviortracker/internal/core/world"
)

// Chase and flee move this far along each axis per tick.
const pursuitStep = 0.5

// Interpreter applies commands to a single world. Commands aimed at missing or
// dead entities are skipped rather than reported.
type Interpreter struct {
	world  *world.World
	logger log.Log
}

type Option func(*Interpreter)

func WithLogger(l log.Log) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l.With(log.String("component", "interpreter"))
		}
	}
}

func New(w *world.World, opts ...Option) *Interpreter {
	i := &Interpreter{
		world:  w,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Interpreter) World() *world.World { return i.world }

// Execute applies one command on behalf of the named entity.
func (i *Interpreter) Execute(entity string, cmd command.Command) {
	i.execute(entity, "", cmd)
}

// ExecuteTick applies every channel's command in the given order, then runs
// one physics step and advances the world tick.
func (i *Interpreter) ExecuteTick(cmds []command.ChannelCommand) {
	for _, cc := range cmds {
		i.execute(cc.Channel, cc.Kind, cc.Command)
	}
	i.world.Advance()
}

func (i *Interpreter) execute(name, kindHint string, cmd command.Command) {
	w := i.world
	switch c := cmd.(type) {
	case nil, command.Nop:

	case command.Spawn:
		kind := ResolveKind(name, c.Kind, kindHint)
		w.AddEntity(name, kind, c.X, c.Y)
		w.Logf("%s spawned at (%g,%g)", name, c.X, c.Y)

	case command.Move:
		if e, ok := i.live(name, c); ok {
			e.X += c.DX
			e.Y += c.DY
		}

	case command.Jump:
		if e, ok := i.live(name, c); ok {
			e.VY = -c.Force
		}

	case command.Chase:
		if e, ok := i.live(name, c); ok {
			e.SetPosition(e.Position().Add(w.DirectionTo(name, c.Target).Scale(pursuitStep)))
		}

	case command.Flee:
		if e, ok := i.live(name, c); ok {
			e.SetPosition(e.Position().Sub(w.DirectionTo(name, c.Target).Scale(pursuitStep)))
		}

	case command.Shoot:
		if e, ok := i.live(name, c); ok {
			dir := physics.Vec2{Xv: c.DX, Yv: c.DY}
			pos := e.Position().Add(dir)
			bullet := w.AddEntity(w.ProjectileName(), world.KindBullet, pos.Xv, pos.Yv)
			bullet.SetVelocity(physics.Vec2{Xv: 2 * c.DX, Yv: c.DY})
		}

	case command.Die:
		if w.Kill(name) {
			w.Logf("%s died", name)
		} else {
			i.skip(name, c)
		}

	case command.Say:
		if e, ok := i.live(name, c); ok {
			e.Speech = c.Text
			w.Logf("%s: '%s'", name, c.Text)
		}

	case command.Flag:
		w.SetFlag(c.Name)
		w.Logf("FLAG '%s' set", c.Name)

	default:
		panic(fmt.Sprintf("interpreter: unhandled command %T", cmd))
	}
}

func (i *Interpreter) live(name string, cmd command.Command) (*world.Entity, bool) {
	e, ok := i.world.LiveEntity(name)
	if !ok {
		i.skip(name, cmd)
	}
	return e, ok
}

func (i *Interpreter) skip(name string, cmd command.Command) {
	i.logger.Debug("command skipped: no live entity",
		log.String("entity", name),
		log.String("command", cmd.String()),
		log.Int("tick", i.world.Tick))
}

// ResolveKind picks an entity kind for a spawn: the explicit kind, then the
// channel hint, then the name heuristic ("player" anywhere in the name).
func ResolveKind(name, explicit, hint string) string {
	if explicit != "" {
		return explicit
	}
	if hint != "" {
		return hint
	}
	if strings.Contains(strings.ToLower(name), world.KindPlayer) {
		return world.KindPlayer
	}
	return world.KindEnemy
}
