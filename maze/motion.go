package maze

import (
	"fmt"
	"math"
)

// Intent is one movement request derived from input for a single tick.
type Intent uint8

const (
	None Intent = iota
	Forward
	Backward
	TurnLeft
	TurnRight
)

func (i Intent) String() string {
	switch i {
	case None:
		return "none"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case TurnLeft:
		return "turn-left"
	case TurnRight:
		return "turn-right"
	}
	return fmt.Sprintf("Intent(%d)", uint8(i))
}

// Rate is the per-tick step size of a movement.
type Rate struct {
	Translation float64 // World units per tick.
	Rotation    float64 // Radians per tick.
}

var (
	// DefaultRate applies to digital (keyboard) input.
	DefaultRate = Rate{Translation: 50, Rotation: 0.05}
	// PadRate applies to the analog virtual pad.
	PadRate = Rate{Translation: 5, Rotation: 0.05}
)

// Move pairs an intent with the rate it is applied at.
type Move struct {
	Intent Intent
	Rate   Rate
}

// Proposal is a candidate camera pose that has not been committed.
type Proposal struct {
	Position Point
	Rotation float64
}

// Propose computes the pose m would lead to from cam. It never consults the
// grid and has no side effects.
func Propose(cam CameraState, m Move) Proposal {
	p := Proposal{Position: cam.Position, Rotation: cam.Rotation}
	r, t := cam.Rotation, m.Rate.Translation

	switch m.Intent {
	case Forward:
		p.Position.X -= math.Sin(-r) * -t
		p.Position.Z -= math.Cos(-r) * t
	case Backward:
		p.Position.X -= math.Sin(r) * -t
		p.Position.Z += math.Cos(r) * t
	case TurnLeft:
		p.Rotation += m.Rate.Rotation
	case TurnRight:
		p.Rotation -= m.Rate.Rotation
	}
	return p
}
