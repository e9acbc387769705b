package i

import (
	"context"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/codec"
)

// GameServer defines the interface for one player's maze run.
type GameServer interface {
	// Start loads the first level and ticks until the run ends or Stop is called.
	Start(ctx context.Context, tick time.Duration)

	// Stop ends the run and broadcasts the final frame.
	Stop()

	// Frame returns the latest published frame.
	Frame() codec.Frame

	// StateChan returns the frame channel.
	StateChan() <-chan []byte

	// InputChan returns the channel that accepts encoded input snapshots.
	InputChan() chan<- []byte

	// EndChan returns the channel carrying the final frame.
	EndChan() <-chan []byte
}
