package maze

import (
	"context"
	"errors"
	"fmt"
)

// State is a phase of the level lifecycle.
type State uint8

const (
	Loading  State = iota // Waiting for the loader; ticks change nothing.
	Running               // Ticks move the camera.
	Finished              // Exit reached; transient until advance or end.
	Terminal              // Last level done; ticks are ignored.
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// LevelData is the raw payload a Loader delivers for one level.
type LevelData struct {
	Cells  [][]any // Rows of raw cell values.
	Start  *Cell   // Start cell; nil means (0,0).
	IsLast bool    // No level follows this one.
}

// Loader fetches level payloads. Load may block; the controller always
// calls it off the tick goroutine.
type Loader interface {
	Load(ctx context.Context, ordinal int) (LevelData, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, ordinal int) (LevelData, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, ordinal int) (LevelData, error) {
	return f(ctx, ordinal)
}

// Config configures a Controller.
type Config struct {
	Loader   Loader   // Source of level payloads.
	Layout   Layout   // World placement; zero value means DefaultLayout.
	Observer Observer // Optional notification sink.
}

// Report summarises one tick.
type Report struct {
	State       State        // State after the tick.
	Level       int          // Current level ordinal.
	Loaded      bool         // A level started running during this tick.
	Completed   bool         // The exit was reached during this tick.
	Resolutions []Resolution // One entry per non-None move resolved.
}

type loadResult struct {
	data LevelData
	err  error
}

// Controller drives load -> run -> finish -> advance or terminate. It is not
// safe for concurrent use: Start, Tick, Await and Retry must all be called
// from the same goroutine.
type Controller struct {
	loader   Loader
	layout   Layout
	observer Observer
	resolver *Resolver

	ctx     context.Context
	state   State
	ordinal int
	session *Session
	pending chan loadResult
	err     error
	version int64
}

// NewController validates c and returns an idle controller in Loading.
func NewController(c Config) (*Controller, error) {
	if c.Loader == nil {
		return nil, ErrNoLoader
	}
	if c.Layout == (Layout{}) {
		c.Layout = DefaultLayout
	}
	if !(c.Layout.CellSize > 0) {
		return nil, ErrInvalidLayout
	}
	if c.Observer == nil {
		c.Observer = NopObserver{}
	}

	return &Controller{
		loader:   c.Loader,
		layout:   c.Layout,
		observer: c.Observer,
		resolver: NewResolver(c.Observer),
		state:    Loading,
	}, nil
}

// Start requests the first level. ctx bounds every load of the session.
func (c *Controller) Start(ctx context.Context, ordinal int) error {
	if c.ctx != nil {
		return ErrAlreadyStarted
	}
	if ordinal < 1 {
		return ErrInvalidOrdinal
	}
	c.ctx = ctx
	c.request(ordinal)
	return nil
}

// Retry re-issues a load that failed. There is no automatic retry.
func (c *Controller) Retry(ctx context.Context) error {
	if c.state != Loading || c.err == nil || c.pending != nil {
		return ErrNothingToRetry
	}
	c.ctx = ctx
	c.request(c.ordinal)
	return nil
}

func (c *Controller) request(ordinal int) {
	ctx := c.ctx
	ch := make(chan loadResult, 1)

	c.ordinal = ordinal
	c.err = nil
	c.pending = ch
	go func() {
		data, err := c.loader.Load(ctx, ordinal)
		ch <- loadResult{data: data, err: err}
	}()
}

// Await blocks until the pending load resolves and applies it. It returns
// the load error, if any, and nil when nothing is pending.
func (c *Controller) Await(ctx context.Context) error {
	if c.pending == nil {
		return c.err
	}
	select {
	case r := <-c.pending:
		c.pending = nil
		return c.apply(r)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick advances the simulation by one step.
func (c *Controller) Tick(moves []Move) (Report, error) {
	switch c.state {
	case Terminal:
		return c.report(), nil
	case Loading:
		return c.poll()
	}

	rep := c.report()
	for _, m := range moves {
		if m.Intent == None {
			continue
		}

		res, err := c.resolver.Resolve(c.session, Propose(c.session.camera, m))
		if err != nil {
			return rep, err
		}
		rep.Resolutions = append(rep.Resolutions, res)

		if res.Outcome == Moved {
			c.version++
		}
		if res.Outcome == ExitReached {
			c.complete()
			rep.Completed = true
			break
		}
	}

	rep.State = c.state
	rep.Level = c.ordinal
	return rep, nil
}

func (c *Controller) poll() (Report, error) {
	if c.pending == nil {
		return c.report(), c.err
	}

	select {
	case r := <-c.pending:
		c.pending = nil
		err := c.apply(r)
		rep := c.report()
		rep.Loaded = err == nil
		return rep, err
	default:
		return c.report(), nil
	}
}

// apply turns a load result into a running session or a parked failure.
func (c *Controller) apply(r loadResult) error {
	if r.err != nil {
		if errors.Is(r.err, ErrInvalidLevelData) {
			c.err = fmt.Errorf("level %d: %w", c.ordinal, r.err)
		} else {
			c.err = fmt.Errorf("%w: level %d: %w", ErrLoadFailure, c.ordinal, r.err)
		}
		return c.err
	}

	level, err := c.describe(r.data)
	if err != nil {
		c.err = fmt.Errorf("level %d: %w", c.ordinal, err)
		return c.err
	}

	c.session = newSession(level, c.layout)
	c.state = Running
	c.version++
	c.observer.LevelStarted(level)
	return nil
}

func (c *Controller) describe(data LevelData) (LevelDescriptor, error) {
	grid, err := NewGrid(data.Cells)
	if err != nil {
		return LevelDescriptor{}, err
	}

	var start Cell
	if data.Start != nil {
		start = *data.Start
	}
	kind, err := grid.CellAt(start.Row, start.Col)
	if err != nil {
		return LevelDescriptor{}, fmt.Errorf("%w: start %v: %v", ErrInvalidLevelData, start, err)
	}
	if kind != Open {
		return LevelDescriptor{}, fmt.Errorf("%w: start %v is %v", ErrInvalidLevelData, start, kind)
	}

	return LevelDescriptor{
		Ordinal: c.ordinal,
		Grid:    grid,
		Start:   start,
		IsLast:  data.IsLast,
	}, nil
}

// complete runs Running -> Finished -> (Loading | Terminal).
func (c *Controller) complete() {
	c.state = Finished
	c.version++
	c.observer.LevelCompleted(c.ordinal)

	if c.session.level.IsLast {
		c.state = Terminal
		c.observer.SessionEnded()
		return
	}

	c.session = nil
	c.state = Loading
	c.request(c.ordinal + 1)
}

func (c *Controller) report() Report {
	return Report{State: c.state, Level: c.ordinal}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Level returns the ordinal of the level running or being loaded.
func (c *Controller) Level() int {
	return c.ordinal
}

// Session returns the running level's session, or nil while loading.
func (c *Controller) Session() *Session {
	return c.session
}

// Err returns the error that parked the controller in Loading.
func (c *Controller) Err() error {
	return c.err
}

// Version increments on every visible state change.
func (c *Controller) Version() int64 {
	return c.version
}
