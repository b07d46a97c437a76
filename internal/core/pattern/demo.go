package pattern

import (
	c "github.com/zeusync/behaviortracker/internal/core/command"
)

// DemoPattern is the 16-tick chase scene: the player runs, jumps and shoots
// while an enemy spawns late and gives chase.
func DemoPattern() *Pattern {
	return NewPattern("chase_scene", 16,
		Channel{Name: "player", Kind: "player", Rows: []c.Command{
			c.NewSpawn(4, 14),
			c.NewNop(),
			c.NewMove(1, 0),
			c.NewMove(1, 0),
			c.NewJump(4),
			c.NewNop(),
			c.NewNop(),
			c.NewMove(1, 0),
			c.NewNop(),
			c.NewSay("uh oh"),
			c.NewMove(1, 0),
			c.NewMove(1, 0),
			c.NewShoot(1, 0),
			c.NewMove(1, 0),
			c.NewMove(1, 0),
			c.NewFlag("escaped"),
		}},
		Channel{Name: "enemy", Kind: "enemy", Rows: []c.Command{
			c.NewNop(),
			c.NewNop(),
			c.NewNop(),
			c.NewSpawn(28, 14),
			c.NewNop(),
			c.NewChase("player"),
			c.NewChase("player"),
			c.NewChase("player"),
			c.NewChase("player"),
			c.NewSay("gotcha!"),
			c.NewChase("player"),
			c.NewChase("player"),
			c.NewDie(),
		}},
		Channel{Name: "coin1", Kind: "item", Rows: []c.Command{
			c.NewSpawn(12, 10),
		}},
		Channel{Name: "world", Kind: "world"},
	)
}

// DemoSong plays the chase scene once.
func DemoSong() *Song {
	s, err := NewSong("chase", []*Pattern{DemoPattern()}, []string{"chase_scene"}, NoLoop)
	if err != nil {
		panic(err)
	}
	return s
}
