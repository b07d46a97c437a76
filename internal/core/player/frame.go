package player

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"

	"github.com/zeusync/behaviortracker/internal/core/world"
)

// Frame is the state of the world at the start of one tick, together with
// the messages emitted by the tick before it.
type Frame struct {
	Tick         int                       `json:"tick" cbor:"tick"`
	PatternIndex int                       `json:"pattern_index" cbor:"pattern_index"`
	Pattern      string                    `json:"pattern" cbor:"pattern"`
	PatternTick  int                       `json:"pattern_tick" cbor:"pattern_tick"`
	Entities     map[string]world.Snapshot `json:"entities" cbor:"entities"`
	Messages     []string                  `json:"messages" cbor:"messages"`
}

// canonical encoding keeps map keys sorted so equal frames encode to equal
// bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("player: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncodeFrame serializes a frame to canonical CBOR.
func EncodeFrame(f Frame) ([]byte, error) {
	return cborEncMode.Marshal(f)
}

// DecodeFrame deserializes a frame produced by EncodeFrame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := cbor.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("player: decode frame: %w", err)
	}
	return f, nil
}

// Digest hashes the canonical encoding of the frame.
func (f Frame) Digest() uint64 {
	data, err := EncodeFrame(f)
	if err != nil {
		// Frames only hold strings, numbers and bools.
		panic(fmt.Sprintf("player: encode frame: %v", err))
	}
	return xxhash.Sum64(data)
}

// DigestFrames folds the digests of a frame sequence into one value. Two
// playbacks agree on it only if every frame matches in order.
func DigestFrames(frames []Frame) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, f := range frames {
		d := f.Digest()
		for i := range buf {
			buf[i] = byte(d >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
