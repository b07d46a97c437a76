package pattern

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/behaviortracker/internal/core/command"
)

// Document is the on-disk shape of a song, readable from JSON or YAML. Rows
// are written in tracker notation ("spawn(4,14)", "move(1,0)", ".").
type Document struct {
	Name string `json:"name" yaml:"name"`
	// LoopPoint defaults to NoLoop when absent.
	LoopPoint *int                       `json:"loop_point,omitempty" yaml:"loop_point,omitempty"`
	Sequence  []string                   `json:"sequence" yaml:"sequence"`
	Patterns  map[string]PatternDocument `json:"patterns" yaml:"patterns"`
}

type PatternDocument struct {
	Length   int               `json:"length" yaml:"length"`
	Channels []ChannelDocument `json:"channels" yaml:"channels"`
}

type ChannelDocument struct {
	Name string   `json:"name" yaml:"name"`
	Kind string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Rows []string `json:"rows" yaml:"rows"`
}

// LoadJSON loads a song document from JSON reader.
func LoadJSON(r io.Reader) (*Document, error) {
	var d Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadYAML loads a song document from YAML reader.
func LoadYAML(r io.Reader) (*Document, error) {
	var d Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Build parses every row and returns a validated song. A document with a
// single pattern and no sequence plays that pattern once.
func (d *Document) Build() (*Song, error) {
	names := make([]string, 0, len(d.Patterns))
	for name := range d.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	patterns := make([]*Pattern, 0, len(names))
	for _, name := range names {
		pd := d.Patterns[name]
		p := &Pattern{Name: name, Length: pd.Length, Channels: make([]Channel, 0, len(pd.Channels))}
		for _, cd := range pd.Channels {
			rows, err := command.ParseRows(cd.Rows)
			if err != nil {
				return nil, fmt.Errorf("pattern %s channel %s: %w", name, cd.Name, err)
			}
			p.Channels = append(p.Channels, Channel{Name: cd.Name, Kind: cd.Kind, Rows: rows})
		}
		patterns = append(patterns, p)
	}

	sequence := d.Sequence
	if len(sequence) == 0 && len(names) == 1 {
		sequence = names
	}
	loop := NoLoop
	if d.LoopPoint != nil {
		loop = *d.LoopPoint
	}

	song, err := NewSong(d.Name, patterns, sequence, loop)
	if err != nil {
		return nil, fmt.Errorf("song %s: %w", d.Name, err)
	}
	return song, nil
}

// ToDocument converts a song back into its document form.
func ToDocument(s *Song) *Document {
	d := &Document{
		Name:     s.Name,
		Sequence: append([]string(nil), s.Sequence...),
		Patterns: make(map[string]PatternDocument, len(s.Patterns)),
	}
	if s.Loops() {
		loop := s.LoopPoint
		d.LoopPoint = &loop
	}
	for name, p := range s.Patterns {
		pd := PatternDocument{Length: p.Length, Channels: make([]ChannelDocument, 0, len(p.Channels))}
		for _, ch := range p.Channels {
			rows := make([]string, len(ch.Rows))
			for i := range ch.Rows {
				rows[i] = ch.Row(i).String()
			}
			pd.Channels = append(pd.Channels, ChannelDocument{Name: ch.Name, Kind: ch.Kind, Rows: rows})
		}
		d.Patterns[name] = pd
	}
	return d
}
