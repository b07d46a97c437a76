package pattern

import (
	"fmt"
	"strings"

	"github.com/zeusync/behaviortracker/internal/core/command"
)

const cellWidth = 12

// FormatGrid renders a pattern in tracker notation, one row per tick:
//
//	Tick | player       | enemy
//	---------------------------
//	 00  | spawn(4,14)  | .
func FormatGrid(p *Pattern) string {
	var b strings.Builder

	header := make([]string, len(p.Channels))
	for i, ch := range p.Channels {
		header[i] = cell(ch.Name)
	}
	head := "Tick | " + strings.Join(header, " | ")
	b.WriteString(head)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", len(head)))
	b.WriteByte('\n')

	cells := make([]string, len(p.Channels))
	for t := 0; t < p.Length; t++ {
		for i, ch := range p.Channels {
			cells[i] = cell(ch.Row(t).String())
		}
		fmt.Fprintf(&b, " %02d  | %s\n", t, strings.Join(cells, " | "))
	}
	return b.String()
}

func cell(s string) string {
	if s == "" {
		s = command.NopNotation
	}
	r := []rune(s)
	if len(r) > cellWidth {
		r = r[:cellWidth]
	}
	return string(r) + strings.Repeat(" ", cellWidth-len(r))
}
