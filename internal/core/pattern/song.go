package pattern

import "fmt"

// NoLoop is the loop point of a song that finishes after its last pattern.
const NoLoop = -1

// Song is an ordered sequence of pattern references with an optional loop
// target. Any negative LoopPoint means the song does not loop.
type Song struct {
	Name      string
	Patterns  map[string]*Pattern
	Sequence  []string
	LoopPoint int
}

// NewSong keys patterns by name and validates the result.
func NewSong(name string, patterns []*Pattern, sequence []string, loopPoint int) (*Song, error) {
	s := &Song{
		Name:      name,
		Patterns:  make(map[string]*Pattern, len(patterns)),
		Sequence:  append([]string(nil), sequence...),
		LoopPoint: loopPoint,
	}
	for _, p := range patterns {
		if p == nil {
			continue
		}
		if _, dup := s.Patterns[p.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePattern, p.Name)
		}
		s.Patterns[p.Name] = p
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Loops reports whether playback restarts at LoopPoint after the last pattern.
func (s *Song) Loops() bool { return s.LoopPoint >= 0 }

// Pattern resolves the pattern at a sequence index.
func (s *Song) Pattern(index int) (*Pattern, error) {
	if index < 0 || index >= len(s.Sequence) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSequenceIndex, index, len(s.Sequence))
	}
	name := s.Sequence[index]
	p, ok := s.Patterns[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %q at sequence index %d", ErrUnknownPattern, name, index)
	}
	return p, nil
}

// TotalLength is the number of ticks in one pass over the sequence.
func (s *Song) TotalLength() int {
	total := 0
	for _, name := range s.Sequence {
		if p, ok := s.Patterns[name]; ok && p.Length > 0 {
			total += p.Length
		}
	}
	return total
}

// Validate checks referential integrity: every sequence entry names a known
// pattern, the loop point indexes the sequence, and a looped section cannot
// be empty.
func (s *Song) Validate() error {
	for key, p := range s.Patterns {
		if p == nil {
			return fmt.Errorf("%w: %q is nil", ErrUnknownPattern, key)
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for i := range s.Sequence {
		if _, err := s.Pattern(i); err != nil {
			return err
		}
	}
	if !s.Loops() {
		return nil
	}
	if s.LoopPoint >= len(s.Sequence) {
		return fmt.Errorf("%w: %d with %d patterns in sequence", ErrLoopOutOfRange, s.LoopPoint, len(s.Sequence))
	}
	looped := 0
	for _, name := range s.Sequence[s.LoopPoint:] {
		looped += s.Patterns[name].Length
	}
	if looped == 0 {
		return fmt.Errorf("%w: from sequence index %d", ErrEmptyLoop, s.LoopPoint)
	}
	return nil
}
