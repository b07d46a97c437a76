package command

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotation(t *testing.T) {
	cases := []struct {
		cmd  Command
		want string
	}{
		{NewNop(), "."},
		{NewSpawn(4, 14), "spawn(4,14)"},
		{NewSpawnKind(12, 10, "item"), "spawn(12,10,item)"},
		{NewMove(1, 0), "move(1,0)"},
		{NewMove(-0.5, 2), "move(-0.5,2)"},
		{NewJump(4), "jump(4)"},
		{NewChase("player"), "chase(player)"},
		{NewFlee("player"), "flee(player)"},
		{NewShoot(1, 0), "shoot(1,0)"},
		{NewDie(), "die"},
		{NewSay("uh oh"), "say(uh oh)"},
		{NewFlag("escaped"), "flag(escaped)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.cmd.String())

		parsed, err := Parse(tc.want)
		require.NoError(t, err, tc.want)
		assert.Equal(t, tc.cmd, parsed, tc.want)
	}
}

func TestParseNopSpellings(t *testing.T) {
	for _, s := range []string{"", " . ", "nop", "wait", "wait()"} {
		c, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, VerbNop, c.Verb(), s)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("teleport(1,2)")
	assert.ErrorIs(t, err, ErrUnknownVerb)

	_, err = Parse("move(1)")
	assert.ErrorIs(t, err, ErrBadArguments)

	_, err = Parse("jump(high)")
	assert.ErrorIs(t, err, ErrBadArguments)

	_, err = Parse("spawn(1,2,3,4)")
	assert.ErrorIs(t, err, ErrBadArguments)

	_, err = Parse("move")
	assert.ErrorIs(t, err, ErrBadArguments)

	_, err = Parse("move(1,0")
	assert.ErrorIs(t, err, ErrBadArguments)

	_, err = Parse("???")
	assert.ErrorIs(t, err, ErrBadNotation)

	for _, s := range []string{"spawn(NaN,1)", "move(Inf,0)", "shoot(0,-Inf)", "jump(+Inf)"} {
		_, err = Parse(s)
		assert.ErrorIs(t, err, ErrBadArguments, s)
	}
}

func TestValidateRejectsValuesWithoutNotation(t *testing.T) {
	for _, c := range []Command{
		Spawn{X: math.NaN(), Y: 1},
		Move{DX: math.Inf(1)},
		Jump{Force: math.Inf(-1)},
		Chase{Target: " x"},
		Flee{Target: "x\t"},
		Flag{Name: " won "},
		Spawn{X: 1, Y: 1, Kind: "orc "},
	} {
		assert.ErrorIs(t, Validate(c), ErrBadArguments, c.String())
	}

	for _, s := range []string{"spawn(1,2,orc)", "chase( player )", "flag(won)", "say( hi )", "move(-1.5,0)", "."} {
		c := MustParse(s)
		require.NoError(t, Validate(c), s)
		back, err := Parse(c.String())
		require.NoError(t, err, s)
		assert.Equal(t, c, back, s)
	}
}

func TestConstructorsTrimNames(t *testing.T) {
	assert.Equal(t, Chase{Target: "x"}, NewChase(" x"))
	assert.Equal(t, Flee{Target: "x"}, NewFlee("x "))
	assert.Equal(t, Flag{Name: "won"}, NewFlag(" won"))
	assert.Equal(t, Spawn{X: 1, Y: 2, Kind: "orc"}, NewSpawnKind(1, 2, " orc"))
}

func TestParseRowsReportsIndex(t *testing.T) {
	rows, err := ParseRows([]string{"spawn(1,1)", ".", "move(1,0)"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = ParseRows([]string{".", "fly(2)"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestVerbString(t *testing.T) {
	assert.Equal(t, "shoot", VerbShoot.String())
	assert.Equal(t, "verb(42)", Verb(42).String())
}
