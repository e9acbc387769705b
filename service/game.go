package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/codec"
	"github.com/beka-birhanu/vinom-maze3d/input"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/beka-birhanu/vinom-maze3d/service/i"
)

// Game-related errors.
var (
	ErrInvalidTick = errors.New("tick interval must be positive")
	ErrNoEncoder   = errors.New("no encoder configured")
)

// Action types carried in the first byte of a player record.
const (
	inputActionType        = 3 << iota // Replaces the held input snapshot.
	stateRequestActionType             // Asks for the current frame.
	retryActionType                    // Retries a failed level load.
)

const (
	stateBuffer = 16 // Frames queued before the oldest listener falls behind.
	inputBuffer = 32 // Player records queued before they are dropped.
)

// Encoder converts frames and input snapshots to and from wire payloads.
type Encoder interface {
	MarshalFrame(f codec.Frame) ([]byte, error)
	UnmarshalInput(b []byte) (input.Snapshot, error)
}

// GameConfig configures a Game.
type GameConfig struct {
	Loader     maze.Loader   // Level source.
	Layout     maze.Layout   // World placement.
	Rate       maze.Rate     // Digital input rate.
	FirstLevel int           // Ordinal of the first level; 0 means 1.
	Observer   maze.Observer // Optional lifecycle sink.
	Encoder    Encoder       // Frame and input codec.
	Logger     i.Logger
}

// Game runs one player's walk through the levels. The controller is only
// touched from the Start goroutine; Frame may be read from anywhere.
type Game struct {
	controller *maze.Controller
	encoder    Encoder
	rate       maze.Rate
	firstLevel int
	logger     i.Logger

	ctx         context.Context
	held        input.Snapshot // Input applied every tick until replaced.
	lastVersion int64          // Version of the last published frame.
	parked      error          // Load error already reported.

	frame     codec.Frame   // Latest published frame.
	stop      chan struct{} // Closed to stop the loop.
	stopOnce  sync.Once
	stateChan chan []byte // Frames after state changes.
	inputChan chan []byte // Raw player records.
	endChan   chan []byte // The final frame.
	sync.RWMutex
}

// NewGame creates a game that has not started loading yet.
func NewGame(c GameConfig) (*Game, error) {
	if c.Encoder == nil {
		return nil, ErrNoEncoder
	}
	if c.FirstLevel == 0 {
		c.FirstLevel = 1
	}
	if c.Rate == (maze.Rate{}) {
		c.Rate = maze.DefaultRate
	}

	controller, err := maze.NewController(maze.Config{
		Loader:   c.Loader,
		Layout:   c.Layout,
		Observer: c.Observer,
	})
	if err != nil {
		return nil, fmt.Errorf("creating controller: %w", err)
	}

	return &Game{
		controller: controller,
		encoder:    c.Encoder,
		rate:       c.Rate,
		firstLevel: c.FirstLevel,
		logger:     c.Logger,
		stop:       make(chan struct{}),
		stateChan:  make(chan []byte, stateBuffer),
		inputChan:  make(chan []byte, inputBuffer),
		endChan:    make(chan []byte, 1),
	}, nil
}

// Start requests the first level and ticks until the last level is
// completed, ctx is done or Stop is called. It always finishes by sending
// the final frame on EndChan and closing the output channels.
func (g *Game) Start(ctx context.Context, tick time.Duration) {
	defer g.finish()

	if tick <= 0 {
		g.logger.Error(ErrInvalidTick.Error())
		return
	}
	g.ctx = ctx
	if err := g.controller.Start(ctx, g.firstLevel); err != nil {
		g.logger.Error(fmt.Sprintf("starting level %d: %s", g.firstLevel, err))
		return
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-g.stop:
			return
		case record := <-g.inputChan:
			g.handleAction(record)
		case <-ticker.C:
			if g.step() {
				return
			}
		}
	}
}

// handleAction processes a record whose first byte is the action type.
func (g *Game) handleAction(record []byte) {
	if len(record) < 1 {
		return
	}

	switch record[0] {
	case inputActionType:
		snap, err := g.encoder.UnmarshalInput(record[1:])
		if err != nil {
			g.logger.Warning(fmt.Sprintf("decoding input: %s", err))
			return
		}
		g.held = snap
	case stateRequestActionType:
		g.broadcastState(g.snapshot(false))
	case retryActionType:
		if err := g.controller.Retry(g.ctx); err != nil {
			g.logger.Warning(fmt.Sprintf("retrying level %d: %s", g.controller.Level(), err))
			return
		}
		g.parked = nil
		g.logger.Info(fmt.Sprintf("retrying level %d", g.controller.Level()))
	default:
		g.logger.Warning(fmt.Sprintf("unknown action type %d", record[0]))
	}
}

// step runs one tick and reports whether the run is over.
func (g *Game) step() bool {
	rep, err := g.controller.Tick(g.held.Moves(g.rate))
	if err != nil && err != g.parked {
		g.parked = err
		g.logger.Error(err.Error())
		g.broadcastState(g.snapshot(false))
	}
	if rep.Loaded {
		g.logger.Info(fmt.Sprintf("level %d running", rep.Level))
	}

	if rep.State == maze.Terminal {
		return true
	}
	if v := g.controller.Version(); v != g.lastVersion {
		g.lastVersion = v
		g.broadcastState(g.snapshot(false))
	}
	return false
}

// snapshot captures the controller as a frame and caches it.
func (g *Game) snapshot(ended bool) codec.Frame {
	c := g.controller
	f := codec.Frame{
		Version: c.Version(),
		Level:   c.Level(),
		State:   c.State().String(),
		Ended:   ended,
	}
	if s := c.Session(); s != nil {
		cam := s.Camera()
		cell := s.Occupied()
		f.X, f.Y, f.Z = cam.Position.X, cam.Position.Y, cam.Position.Z
		f.Rotation = cam.Rotation
		f.Row, f.Col = cell.Row, cell.Col
	}
	if err := c.Err(); err != nil {
		f.Error = err.Error()
	}

	g.Lock()
	g.frame = f
	g.Unlock()
	return f
}

// broadcastState queues f for the listener, dropping it if the queue is full.
func (g *Game) broadcastState(f codec.Frame) {
	payload, err := g.encoder.MarshalFrame(f)
	if err != nil {
		g.logger.Error(fmt.Sprintf("encoding frame: %s", err))
		return
	}

	select {
	case g.stateChan <- payload:
	default:
		g.logger.Warning(fmt.Sprintf("state queue full, dropping frame %d", f.Version))
	}
}

func (g *Game) finish() {
	f := g.snapshot(true)
	payload, err := g.encoder.MarshalFrame(f)
	if err != nil {
		g.logger.Error(fmt.Sprintf("encoding final frame: %s", err))
	} else {
		g.endChan <- payload
	}
	close(g.stateChan)
	close(g.endChan)
}

// Stop signals the loop to end. The final frame follows on EndChan.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Frame returns the latest captured frame.
func (g *Game) Frame() codec.Frame {
	g.RLock()
	defer g.RUnlock()
	return g.frame
}

// StateChan returns the state change channel.
func (g *Game) StateChan() <-chan []byte {
	return g.stateChan
}

// InputChan returns the channel that accepts player records.
func (g *Game) InputChan() chan<- []byte {
	return g.inputChan
}

// EndChan returns the end channel for the game.
func (g *Game) EndChan() <-chan []byte {
	return g.endChan
}
