package pattern

import (
	"io"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the song's content: name, sequence, loop point and every
// pattern's rows in notation. Songs that play identically from the same world
// share a fingerprint.
func Fingerprint(s *Song) uint64 {
	h := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = io.WriteString(h, p)
			_, _ = h.Write([]byte{0})
		}
	}

	write("song", s.Name, strconv.Itoa(s.LoopPoint))
	for _, name := range s.Sequence {
		write("seq", name)
	}

	names := make([]string, 0, len(s.Patterns))
	for name := range s.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := s.Patterns[name]
		write("pattern", name, strconv.Itoa(p.Length))
		for _, ch := range p.Channels {
			write("channel", ch.Name, ch.Kind)
			for t := 0; t < p.Length; t++ {
				write(ch.Row(t).String())
			}
		}
	}
	return h.Sum64()
}

// FingerprintHex is Fingerprint formatted for display and storage.
func FingerprintHex(s *Song) string {
	return strconv.FormatUint(Fingerprint(s), 16)
}
