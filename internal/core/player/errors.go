package player

import "errors"

var (
	ErrNilSong  = errors.New("player: song is nil")
	ErrNilWorld = errors.New("player: world is nil")
)
