package player

// Event types published on the bus when one is attached.
const (
	EventFrame    = "playback.frame"
	EventPattern  = "playback.pattern"
	EventLoop     = "playback.loop"
	EventFinished = "playback.finished"
)

// PatternEvent is the payload of EventPattern, EventLoop and EventFinished.
type PatternEvent struct {
	Position Position
	Pattern  string
}
