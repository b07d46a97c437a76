package pattern

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behaviortracker/internal/core/command"
)

func TestTickPadsShortChannelsWithNop(t *testing.T) {
	p := NewPattern("p", 4,
		Channel{Name: "a", Rows: []command.Command{command.NewSpawn(1, 1), command.NewMove(1, 0)}},
		Channel{Name: "b", Kind: "item"},
	)

	for tick := 0; tick < 8; tick++ {
		cmds := p.Tick(tick)
		require.Len(t, cmds, 2)
		assert.Equal(t, "a", cmds[0].Channel)
		assert.Equal(t, "b", cmds[1].Channel)
		assert.Equal(t, "item", cmds[1].Kind)
		assert.Equal(t, command.VerbNop, cmds[1].Command.Verb())
		if tick >= 2 {
			assert.Equal(t, command.VerbNop, cmds[0].Command.Verb(), "tick %d", tick)
		}
	}
	assert.Equal(t, command.VerbSpawn, p.Tick(0)[0].Command.Verb())
	assert.Equal(t, command.VerbNop, p.Tick(-1)[0].Command.Verb())
}

func TestTickBeyondLengthIsNopEvenWithExtraRows(t *testing.T) {
	p := NewPattern("p", 1, Channel{Name: "a", Rows: []command.Command{
		command.NewSpawn(1, 1), command.NewDie(),
	}})
	assert.Equal(t, command.VerbNop, p.Tick(1)[0].Command.Verb())
}

func TestNewSongValidation(t *testing.T) {
	a := NewPattern("a", 2)
	b := NewPattern("b", 0)

	_, err := NewSong("s", []*Pattern{a}, []string{"a", "missing"}, NoLoop)
	assert.ErrorIs(t, err, ErrUnknownPattern)

	_, err = NewSong("s", []*Pattern{a}, []string{"a"}, 1)
	assert.ErrorIs(t, err, ErrLoopOutOfRange)

	_, err = NewSong("s", []*Pattern{a, b}, []string{"a", "b"}, 1)
	assert.ErrorIs(t, err, ErrEmptyLoop)

	_, err = NewSong("s", []*Pattern{a, a}, []string{"a"}, NoLoop)
	assert.ErrorIs(t, err, ErrDuplicatePattern)

	_, err = NewSong("s", []*Pattern{NewPattern("neg", -1)}, nil, NoLoop)
	assert.ErrorIs(t, err, ErrNegativeLength)

	s, err := NewSong("s", []*Pattern{a, b}, []string{"a", "b", "a"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalLength())
	assert.True(t, s.Loops())
}

func TestSongPatternResolution(t *testing.T) {
	s, err := NewSong("s", []*Pattern{NewPattern("a", 1)}, []string{"a"}, NoLoop)
	require.NoError(t, err)

	p, err := s.Pattern(0)
	require.NoError(t, err)
	assert.Equal(t, "a", p.Name)

	_, err = s.Pattern(1)
	assert.ErrorIs(t, err, ErrSequenceIndex)

	s.Sequence = append(s.Sequence, "ghost")
	_, err = s.Pattern(1)
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

const songYAML = `
name: two_part
loop_point: 1
sequence: [intro, chase, chase]
patterns:
  intro:
    length: 2
    channels:
      - name: player
        kind: player
        rows: ["spawn(4,14)", "say(ready)"]
  chase:
    length: 3
    channels:
      - name: player
        rows: ["move(1,0)", wait, "jump(2)"]
      - name: enemy
        rows: ["spawn(20,14,enemy)", "chase(player)"]
`

func TestLoadYAMLBuildsSong(t *testing.T) {
	doc, err := LoadYAML(strings.NewReader(songYAML))
	require.NoError(t, err)

	s, err := doc.Build()
	require.NoError(t, err)

	assert.Equal(t, "two_part", s.Name)
	assert.Equal(t, 1, s.LoopPoint)
	assert.Equal(t, []string{"intro", "chase", "chase"}, s.Sequence)
	assert.Equal(t, 8, s.TotalLength())

	chase := s.Patterns["chase"]
	require.Len(t, chase.Channels, 2)
	assert.Equal(t, command.NewMove(1, 0), chase.Channels[0].Rows[0])
	assert.Equal(t, command.NewNop(), chase.Channels[0].Rows[1])
	assert.Equal(t, command.NewSpawnKind(20, 14, "enemy"), chase.Channels[1].Rows[0])
}

func TestLoadJSONDefaultsAndSinglePattern(t *testing.T) {
	doc, err := LoadJSON(strings.NewReader(`{
  "name": "solo",
  "patterns": {"only": {"length": 1, "channels": [{"name": "p", "rows": ["spawn(1,1)"]}]}}
}`))
	require.NoError(t, err)

	s, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, NoLoop, s.LoopPoint)
	assert.Equal(t, []string{"only"}, s.Sequence)
}

func TestBuildRejectsBadDocuments(t *testing.T) {
	doc, err := LoadJSON(strings.NewReader(`{"name":"x","sequence":["nope"],"patterns":{}}`))
	require.NoError(t, err)
	_, err = doc.Build()
	assert.ErrorIs(t, err, ErrUnknownPattern)

	doc, err = LoadJSON(strings.NewReader(`{"name":"x","patterns":{"p":{"length":1,"channels":[{"name":"a","rows":["warp(1)"]}]}}}`))
	require.NoError(t, err)
	_, err = doc.Build()
	assert.ErrorIs(t, err, command.ErrUnknownVerb)

	_, err = LoadJSON(strings.NewReader(`{"name":"x","tempo":3}`))
	assert.Error(t, err)

	doc, err = LoadJSON(strings.NewReader(`{"name":"x","patterns":{"p":{"length":1,"channels":[{"name":"a","rows":["spawn(NaN,NaN)"]}]}}}`))
	require.NoError(t, err)
	_, err = doc.Build()
	assert.ErrorIs(t, err, command.ErrBadArguments)
}

func TestNewSongRejectsCommandsWithoutNotation(t *testing.T) {
	for _, c := range []command.Command{
		command.Chase{Target: " x"},
		command.Spawn{X: math.NaN(), Y: 0},
	} {
		p := NewPattern("p", 1, Channel{Name: "a", Rows: []command.Command{c}})
		_, err := NewSong("s", []*Pattern{p}, []string{"p"}, NoLoop)
		assert.ErrorIs(t, err, command.ErrBadArguments, c.String())
	}

	p := NewPattern("p", 2, Channel{Name: "a", Rows: []command.Command{command.NewChase(" x"), command.NewFlag("won ")}})
	orig, err := NewSong("s", []*Pattern{p}, []string{"p"}, NoLoop)
	require.NoError(t, err)
	back, err := ToDocument(orig).Build()
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(orig), Fingerprint(back))
}

func TestDocumentRoundTrip(t *testing.T) {
	orig := DemoSong()
	doc := ToDocument(orig)

	var buf bytes.Buffer
	require.NoError(t, yamlEncode(&buf, doc))

	back, err := LoadYAML(&buf)
	require.NoError(t, err)
	song, err := back.Build()
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(orig), Fingerprint(song))
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := DemoSong()
	b := DemoSong()
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEmpty(t, FingerprintHex(a))

	b.Patterns["chase_scene"].Channels[0].Rows[2] = command.NewMove(2, 0)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFormatGrid(t *testing.T) {
	grid := FormatGrid(DemoPattern())
	lines := strings.Split(strings.TrimRight(grid, "\n"), "\n")

	require.Len(t, lines, 2+16)
	assert.True(t, strings.HasPrefix(lines[0], "Tick | player       | enemy"))
	assert.True(t, strings.HasPrefix(lines[2], " 00  | spawn(4,14)  | .  "))
	assert.Contains(t, lines[17], "flag(escaped)"[:12])
}

func TestDemoSong(t *testing.T) {
	s := DemoSong()
	assert.Equal(t, 16, s.TotalLength())
	assert.False(t, s.Loops())

	ch, ok := s.Patterns["chase_scene"].Channel("coin1")
	require.True(t, ok)
	assert.Equal(t, "item", ch.Kind)
	assert.Equal(t, "Pattern: chase_scene (16 ticks, 4 channels)", s.Patterns["chase_scene"].String())
}
