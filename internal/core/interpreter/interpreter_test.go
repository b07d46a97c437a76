package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behaviortracker/internal/core/command"
	"github.com/zeusync/behaviortracker/internal/core/world"
)

func newInterp() (*Interpreter, *world.World) {
	w := world.New(32, 16, 0)
	return New(w), w
}

func TestSpawnKindResolution(t *testing.T) {
	in, w := newInterp()

	in.Execute("Player1", command.NewSpawn(1, 1))
	in.Execute("coin1", command.NewSpawn(2, 2))
	in.Execute("chest", command.NewSpawnKind(3, 3, "item"))
	in.ExecuteTick([]command.ChannelCommand{
		{Channel: "gem", Kind: "item", Command: command.NewSpawn(4, 4)},
	})

	assert.Equal(t, world.KindPlayer, w.Entities["Player1"].Kind)
	assert.Equal(t, world.KindEnemy, w.Entities["coin1"].Kind)
	assert.Equal(t, "item", w.Entities["chest"].Kind)
	assert.Equal(t, "item", w.Entities["gem"].Kind)
	assert.Contains(t, w.Messages, "T0: Player1 spawned at (1,1)")
}

func TestSpawnOverwritesAndRevives(t *testing.T) {
	in, w := newInterp()
	in.Execute("p", command.NewSpawn(1, 1))
	in.Execute("p", command.NewDie())
	require.False(t, w.Entities["p"].Alive)

	in.Execute("p", command.NewSpawn(7, 2))
	e := w.Entities["p"]
	assert.True(t, e.Alive)
	assert.Equal(t, 7.0, e.X)
	assert.Equal(t, 2.0, e.Y)
}

func TestMoveAndJump(t *testing.T) {
	in, w := newInterp()
	in.Execute("p", command.NewSpawn(5, 5))
	in.Execute("p", command.NewMove(1, -2))
	in.Execute("p", command.NewJump(3))

	e := w.Entities["p"]
	assert.Equal(t, 6.0, e.X)
	assert.Equal(t, 3.0, e.Y)
	assert.Equal(t, -3.0, e.VY)
}

func TestChaseAndFlee(t *testing.T) {
	in, w := newInterp()
	in.Execute("player", command.NewSpawn(4, 10))
	in.Execute("enemy", command.NewSpawn(10, 10))

	in.Execute("enemy", command.NewChase("player"))
	assert.Equal(t, 9.5, w.Entities["enemy"].X)
	assert.Equal(t, 10.0, w.Entities["enemy"].Y)

	in.Execute("player", command.NewFlee("enemy"))
	assert.Equal(t, 3.5, w.Entities["player"].X)
}

func TestChaseMissingTargetNeverMoves(t *testing.T) {
	in, w := newInterp()
	in.Execute("hunter", command.NewSpawn(3, 3))

	assert.NotPanics(t, func() {
		in.Execute("hunter", command.NewChase("ghost"))
		in.Execute("hunter", command.NewFlee("ghost"))
		in.Execute("nobody", command.NewChase("hunter"))
	})

	e := w.Entities["hunter"]
	assert.Equal(t, 3.0, e.X)
	assert.Equal(t, 3.0, e.Y)
	assert.NotContains(t, w.Entities, "nobody")
}

func TestShootSpawnsProjectile(t *testing.T) {
	in, w := newInterp()
	w.Tick = 12
	in.Execute("player", command.NewSpawn(10, 14))
	in.Execute("player", command.NewShoot(1, 0))
	in.Execute("player", command.NewShoot(-1, 1))

	b, ok := w.Entities["bullet_12"]
	require.True(t, ok)
	assert.Equal(t, world.KindBullet, b.Kind)
	assert.Equal(t, 11.0, b.X)
	assert.Equal(t, 14.0, b.Y)
	assert.Equal(t, 2.0, b.VX)
	assert.Equal(t, 0.0, b.VY)

	b2, ok := w.Entities["bullet_12_1"]
	require.True(t, ok)
	assert.Equal(t, 9.0, b2.X)
	assert.Equal(t, 15.0, b2.Y)
	assert.Equal(t, -2.0, b2.VX)
	assert.Equal(t, 1.0, b2.VY)
}

func TestDeadEntitiesIgnoreCommands(t *testing.T) {
	in, w := newInterp()
	in.Execute("p", command.NewSpawn(5, 5))
	in.Execute("p", command.NewDie())
	before := *w.Entities["p"]

	cmds := []command.Command{
		command.NewMove(1, 1),
		command.NewJump(4),
		command.NewChase("p"),
		command.NewFlee("p"),
		command.NewShoot(1, 0),
		command.NewSay("still here"),
		command.NewDie(),
		command.NewNop(),
	}
	for _, c := range cmds {
		in.Execute("p", c)
	}

	after := w.Entities["p"]
	assert.False(t, after.Alive)
	assert.Equal(t, before.X, after.X)
	assert.Equal(t, before.Y, after.Y)
	assert.Equal(t, before.VY, after.VY)
	assert.Empty(t, after.Speech)
	assert.Len(t, w.Entities, 1)
}

func TestMissingEntityCommandsAreNoOps(t *testing.T) {
	in, w := newInterp()
	assert.NotPanics(t, func() {
		in.Execute("ghost", command.NewMove(1, 1))
		in.Execute("ghost", command.NewJump(1))
		in.Execute("ghost", command.NewShoot(1, 0))
		in.Execute("ghost", command.NewSay("boo"))
		in.Execute("ghost", command.NewDie())
	})
	assert.Empty(t, w.Entities)
	assert.Empty(t, w.Messages)
}

func TestSayAndFlagLogMessages(t *testing.T) {
	in, w := newInterp()
	in.Execute("player", command.NewSpawn(1, 1))
	w.Messages = nil

	in.Execute("player", command.NewSay("uh oh"))
	in.Execute("world", command.NewFlag("escaped"))

	assert.Equal(t, "uh oh", w.Entities["player"].Speech)
	assert.True(t, w.HasFlag("escaped"))
	assert.Equal(t, []string{"T0: player: 'uh oh'", "T0: FLAG 'escaped' set"}, w.Messages)
}

func TestNopLeavesEntityUnchanged(t *testing.T) {
	in, w := newInterp()
	in.Execute("p", command.NewSpawn(2.25, 7.5))
	e := w.Entities["p"]
	e.VX, e.VY = 0.125, -1
	e.Speech = "x"
	before := *e

	in.Execute("p", command.NewNop())

	assert.Equal(t, before, *e)
}

func TestExecuteTickRunsPhysicsAndAdvances(t *testing.T) {
	w := world.New(32, 16, 0)
	in := New(w)

	in.ExecuteTick([]command.ChannelCommand{
		{Channel: "p", Command: command.NewSpawn(5, 5)},
	})
	in.ExecuteTick([]command.ChannelCommand{
		{Channel: "p", Command: command.NewJump(3)},
	})

	e := w.Entities["p"]
	assert.Equal(t, 2, w.Tick)
	assert.Equal(t, 2.0, e.Y)
	assert.Equal(t, -3.0, e.VY)
}

func TestExecuteTickHonorsChannelOrder(t *testing.T) {
	w := world.New(32, 16, 0)
	in := New(w)
	in.ExecuteTick([]command.ChannelCommand{
		{Channel: "a", Command: command.NewSpawn(1, 1)},
		{Channel: "a", Command: command.NewMove(2, 0)},
		{Channel: "b", Command: command.NewSpawn(9, 1)},
		{Channel: "b", Command: command.NewChase("a")},
	})
	assert.Equal(t, 3.0, w.Entities["a"].X)
	assert.Equal(t, 8.5, w.Entities["b"].X)
}
