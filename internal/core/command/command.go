// Package command defines the fixed behavior vocabulary executed by the
// interpreter: one tagged variant per verb, each carrying only the parameters
// it needs.
package command

import (
	"strconv"
	"strings"
)

// Verb identifies a command variant.
type Verb uint8

const (
	VerbNop Verb = iota
	VerbSpawn
	VerbMove
	VerbJump
	VerbChase
	VerbFlee
	VerbShoot
	VerbDie
	VerbSay
	VerbFlag
)

var verbNames = [...]string{
	VerbNop:   "nop",
	VerbSpawn: "spawn",
	VerbMove:  "move",
	VerbJump:  "jump",
	VerbChase: "chase",
	VerbFlee:  "flee",
	VerbShoot: "shoot",
	VerbDie:   "die",
	VerbSay:   "say",
	VerbFlag:  "flag",
}

func (v Verb) String() string {
	if int(v) < len(verbNames) {
		return verbNames[v]
	}
	return "verb(" + strconv.Itoa(int(v)) + ")"
}

// Command is a single immutable behavior. The set of implementations is
// closed: only the variants in this package satisfy it.
type Command interface {
	Verb() Verb
	// String renders the command in tracker notation, e.g. "move(1,0)".
	String() string

	command()
}

// Nop holds the previous state for one tick.
type Nop struct{}

// Spawn creates (or replaces) the entity at X, Y. Kind is optional; when empty
// the interpreter resolves it from the channel hint or the entity name.
type Spawn struct {
	X, Y float64
	Kind string
}

// Move displaces the entity by DX, DY.
type Move struct{ DX, DY float64 }

// Jump sets the entity's vertical velocity to -Force.
type Jump struct{ Force float64 }

// Chase steps the entity half a unit toward Target on each axis.
type Chase struct{ Target string }

// Flee steps the entity half a unit away from Target on each axis.
type Flee struct{ Target string }

// Shoot emits a projectile one step away from the shooter along DX, DY.
type Shoot struct{ DX, DY float64 }

// Die marks the entity dead. Dead entities stay in the world.
type Die struct{}

// Say shows Text above the entity for one tick.
type Say struct{ Text string }

// Flag raises a world-global flag.
type Flag struct{ Name string }

func (Nop) Verb() Verb   { return VerbNop }
func (Spawn) Verb() Verb { return VerbSpawn }
func (Move) Verb() Verb  { return VerbMove }
func (Jump) Verb() Verb  { return VerbJump }
func (Chase) Verb() Verb { return VerbChase }
func (Flee) Verb() Verb  { return VerbFlee }
func (Shoot) Verb() Verb { return VerbShoot }
func (Die) Verb() Verb   { return VerbDie }
func (Say) Verb() Verb   { return VerbSay }
func (Flag) Verb() Verb  { return VerbFlag }

func (Nop) command()   {}
func (Spawn) command() {}
func (Move) command()  {}
func (Jump) command()  {}
func (Chase) command() {}
func (Flee) command()  {}
func (Shoot) command() {}
func (Die) command()   {}
func (Say) command()   {}
func (Flag) command()  {}

func (Nop) String() string { return NopNotation }

func (c Spawn) String() string {
	if c.Kind != "" {
		return notation(VerbSpawn, formatNum(c.X), formatNum(c.Y), c.Kind)
	}
	return notation(VerbSpawn, formatNum(c.X), formatNum(c.Y))
}

func (c Move) String() string  { return notation(VerbMove, formatNum(c.DX), formatNum(c.DY)) }
func (c Jump) String() string  { return notation(VerbJump, formatNum(c.Force)) }
func (c Chase) String() string { return notation(VerbChase, c.Target) }
func (c Flee) String() string  { return notation(VerbFlee, c.Target) }
func (c Shoot) String() string { return notation(VerbShoot, formatNum(c.DX), formatNum(c.DY)) }
func (Die) String() string     { return VerbDie.String() }
func (c Say) String() string   { return notation(VerbSay, c.Text) }
func (c Flag) String() string  { return notation(VerbFlag, c.Name) }

// NopNotation is the tracker cell for an empty row.
const NopNotation = "."

func notation(v Verb, args ...string) string {
	var b strings.Builder
	b.WriteString(v.String())
	b.WriteByte('(')
	b.WriteString(strings.Join(args, ","))
	b.WriteByte(')')
	return b.String()
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Constructors mirroring the authoring shorthand.

func NewNop() Command                 { return Nop{} }
func NewSpawn(x, y float64) Command   { return Spawn{X: x, Y: y} }
func NewMove(dx, dy float64) Command  { return Move{DX: dx, DY: dy} }
func NewJump(force float64) Command   { return Jump{Force: force} }
func NewChase(target string) Command  { return Chase{Target: strings.TrimSpace(target)} }
func NewFlee(target string) Command   { return Flee{Target: strings.TrimSpace(target)} }
func NewShoot(dx, dy float64) Command { return Shoot{DX: dx, DY: dy} }
func NewDie() Command                 { return Die{} }
func NewSay(text string) Command      { return Say{Text: text} }
func NewFlag(name string) Command     { return Flag{Name: strings.TrimSpace(name)} }

func NewSpawnKind(x, y float64, kind string) Command {
	return Spawn{X: x, Y: y, Kind: strings.TrimSpace(kind)}
}

// ChannelCommand binds a command to the channel it is played on for one tick.
// Channel names the driven entity; Kind is the channel's entity type hint.
type ChannelCommand struct {
	Channel string
	Kind    string
	Command Command
}
