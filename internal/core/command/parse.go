package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse reads a single tracker cell such as "move(1,0)", "say(uh oh)" or ".".
// "wait" and "nop" are accepted as spellings of the empty row.
func Parse(s string) (Command, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", NopNotation, "nop", "nop()", "wait", "wait()":
		return Nop{}, nil
	case "die", "die()":
		return Die{}, nil
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		head := s
		if open >= 0 {
			head = s[:open]
		}
		if _, known := lookupVerb(strings.TrimSpace(head)); known {
			return nil, fmt.Errorf("%w: %s requires arguments", ErrBadArguments, s)
		}
		return nil, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}

	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	verb, known := lookupVerb(name)
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, name)
	}

	switch verb {
	case VerbSpawn:
		args := splitArgs(inner)
		if len(args) != 2 && len(args) != 3 {
			return nil, badArgs(s, "spawn takes x,y[,kind]")
		}
		nums, err := parseNums(s, args[:2])
		if err != nil {
			return nil, err
		}
		c := Spawn{X: nums[0], Y: nums[1]}
		if len(args) == 3 {
			c.Kind = args[2]
		}
		return c, nil
	case VerbMove, VerbShoot:
		args := splitArgs(inner)
		if len(args) != 2 {
			return nil, badArgs(s, verb.String()+" takes dx,dy")
		}
		nums, err := parseNums(s, args)
		if err != nil {
			return nil, err
		}
		if verb == VerbMove {
			return Move{DX: nums[0], DY: nums[1]}, nil
		}
		return Shoot{DX: nums[0], DY: nums[1]}, nil
	case VerbJump:
		nums, err := parseNums(s, splitArgs(inner))
		if err != nil {
			return nil, err
		}
		if len(nums) != 1 {
			return nil, badArgs(s, "jump takes force")
		}
		return Jump{Force: nums[0]}, nil
	case VerbChase:
		return Chase{Target: strings.TrimSpace(inner)}, nil
	case VerbFlee:
		return Flee{Target: strings.TrimSpace(inner)}, nil
	case VerbSay:
		return Say{Text: inner}, nil
	case VerbFlag:
		return Flag{Name: strings.TrimSpace(inner)}, nil
	case VerbNop:
		return Nop{}, nil
	case VerbDie:
		return Die{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, name)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Command {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseRows parses a channel's rows in order.
func ParseRows(cells []string) ([]Command, error) {
	rows := make([]Command, len(cells))
	for i, cell := range cells {
		c, err := Parse(cell)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = c
	}
	return rows, nil
}

func lookupVerb(name string) (Verb, bool) {
	name = strings.ToLower(name)
	for v, n := range verbNames {
		if n == name {
			return Verb(v), true
		}
	}
	if name == "wait" {
		return VerbNop, true
	}
	return 0, false
}

func splitArgs(inner string) []string {
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseNums(s string, args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, badArgs(s, fmt.Sprintf("argument %d is not a number", i))
		}
		if !finite(f) {
			return nil, badArgs(s, fmt.Sprintf("argument %d is not finite", i))
		}
		out[i] = f
	}
	return out, nil
}

// Validate rejects commands that have no notation parsing back to the same
// value: non-finite numbers and names with surrounding whitespace.
func Validate(c Command) error {
	var (
		nums  []float64
		names []string
	)
	switch c := c.(type) {
	case Spawn:
		nums, names = []float64{c.X, c.Y}, []string{c.Kind}
	case Move:
		nums = []float64{c.DX, c.DY}
	case Shoot:
		nums = []float64{c.DX, c.DY}
	case Jump:
		nums = []float64{c.Force}
	case Chase:
		names = []string{c.Target}
	case Flee:
		names = []string{c.Target}
	case Flag:
		names = []string{c.Name}
	}
	for i, f := range nums {
		if !finite(f) {
			return badArgs(c.String(), fmt.Sprintf("argument %d is not finite", i))
		}
	}
	for _, n := range names {
		if n != strings.TrimSpace(n) {
			return badArgs(c.String(), fmt.Sprintf("name %q has surrounding whitespace", n))
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func badArgs(s, why string) error {
	return fmt.Errorf("%w: %q: %s", ErrBadArguments, s, why)
}
