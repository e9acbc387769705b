package maze

import "fmt"

// Outcome classifies a resolved move.
type Outcome uint8

const (
	Moved       Outcome = iota + 1 // Proposal committed.
	Blocked                        // Target is a wall; camera unchanged.
	ExitReached                    // Target is the exit; camera unchanged.
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case ExitReached:
		return "exit-reached"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Resolution describes how one proposal was handled.
type Resolution struct {
	Outcome Outcome
	From    Cell     // Cell under the camera center before the move.
	Target  Cell     // Clamped cell the move would enter.
	Kind    CellKind // Classification of Target.
}

// Observer receives engine notifications. Calls happen on the goroutine
// that drives Tick.
type Observer interface {
	// LevelStarted fires when a loaded level starts running.
	LevelStarted(level LevelDescriptor)
	// CellOccupied fires on every committed move.
	CellOccupied(level int, cell Cell)
	// LevelCompleted fires once when the exit is reached.
	LevelCompleted(level int)
	// SessionEnded fires when the last level is completed.
	SessionEnded()
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) LevelStarted(LevelDescriptor) {}
func (NopObserver) CellOccupied(int, Cell)       {}
func (NopObserver) LevelCompleted(int)           {}
func (NopObserver) SessionEnded()                {}

// Resolver is the only component allowed to commit camera state.
type Resolver struct {
	observer Observer
}

// NewResolver returns a resolver that reports committed moves to o.
func NewResolver(o Observer) *Resolver {
	if o == nil {
		o = NopObserver{}
	}
	return &Resolver{observer: o}
}

// Resolve classifies p against the session grid and commits it when the
// target cell is open. The origin is recorded on the first resolved move
// of a level.
func (r *Resolver) Resolve(s *Session, p Proposal) (Resolution, error) {
	s.mapper.SetOrigin(s.layout.Anchor)

	size := s.layout.CellSize
	rows, cols := s.level.Grid.Dimensions()

	raw := s.mapper.Locate(p.Position, size, s.layout.Lookahead())
	res := Resolution{
		From:   s.mapper.CellFor(s.camera.Position, size, 0),
		Target: Clamp(raw, rows, cols),
	}

	// Off-grid targets resolve as walls.
	if !s.level.Grid.InBound(raw) {
		res.Kind = Wall
		res.Outcome = Blocked
		return res, nil
	}

	kind, err := s.level.Grid.CellAt(res.Target.Row, res.Target.Col)
	if err != nil {
		return res, err
	}
	res.Kind = kind

	switch kind {
	case Wall:
		res.Outcome = Blocked
	case Exit:
		res.Outcome = ExitReached
	default:
		s.camera.Position = p.Position
		s.camera.Rotation = p.Rotation
		res.Outcome = Moved
		r.observer.CellOccupied(s.level.Ordinal, res.Target)
	}
	return res, nil
}
