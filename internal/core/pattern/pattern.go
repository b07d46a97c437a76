// Package pattern models the authored data played by the engine: patterns
// (fixed-length grids of per-tick commands, one lane per channel) and songs
// (ordered, optionally looping sequences of named patterns). Values are built
// once and treated as read-only afterwards.
package pattern

import (
	"fmt"

	"github.com/zeusync/behaviortracker/internal/core/command"
)

// Channel is one named lane of a pattern. Rows may be shorter than the
// pattern; missing rows play as no-ops.
type Channel struct {
	Name string
	// Kind is the entity type hint for entities spawned on this channel.
	Kind string
	Rows []command.Command
}

// Row returns the command at tick t, or a no-op past the end of the lane.
func (c Channel) Row(t int) command.Command {
	if t < 0 || t >= len(c.Rows) || c.Rows[t] == nil {
		return command.Nop{}
	}
	return c.Rows[t]
}

// Pattern is a fixed-length, multi-channel grid. Length is authoritative for
// playback regardless of how many rows each channel carries.
type Pattern struct {
	Name     string
	Length   int
	Channels []Channel
}

func NewPattern(name string, length int, channels ...Channel) *Pattern {
	return &Pattern{Name: name, Length: length, Channels: channels}
}

// Tick returns every channel's command for tick t in declaration order.
// Ticks outside [0, Length) yield no-ops for every channel.
func (p *Pattern) Tick(t int) []command.ChannelCommand {
	out := make([]command.ChannelCommand, len(p.Channels))
	for i, ch := range p.Channels {
		cmd := command.Command(command.Nop{})
		if t >= 0 && t < p.Length {
			cmd = ch.Row(t)
		}
		out[i] = command.ChannelCommand{Channel: ch.Name, Kind: ch.Kind, Command: cmd}
	}
	return out
}

// Channel looks a lane up by name.
func (p *Pattern) Channel(name string) (Channel, bool) {
	for _, ch := range p.Channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

func (p *Pattern) Validate() error {
	if p.Name == "" {
		return ErrUnnamedPattern
	}
	if p.Length < 0 {
		return fmt.Errorf("%w: %s has length %d", ErrNegativeLength, p.Name, p.Length)
	}
	for _, ch := range p.Channels {
		for i, c := range ch.Rows {
			if c == nil {
				continue
			}
			if err := command.Validate(c); err != nil {
				return fmt.Errorf("pattern %s channel %s row %d: %w", p.Name, ch.Name, i, err)
			}
		}
	}
	return nil
}

func (p *Pattern) String() string {
	return fmt.Sprintf("Pattern: %s (%d ticks, %d channels)", p.Name, p.Length, len(p.Channels))
}
