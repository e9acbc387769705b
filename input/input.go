// Package input turns raw key and virtual pad state into engine moves.
package input

import "github.com/beka-birhanu/vinom-maze3d/maze"

// Keys is the held state of the digital keys.
type Keys struct {
	Up, Left, Down, Right bool
	W, A, S, D            bool
}

// Pad is the held state of the on-screen virtual pad.
type Pad struct {
	Up, Left, Down, Right bool
}

// Snapshot is the input state read once per tick.
type Snapshot struct {
	Keys Keys
	Pad  Pad
}

// Empty reports whether nothing is held.
func (s Snapshot) Empty() bool {
	return s == Snapshot{}
}

// Moves returns the tick's moves in resolution order: key translation, key
// turn, pad translation, pad turn. Keys use digital; the pad always uses
// maze.PadRate. Up wins over down and left wins over right.
func (s Snapshot) Moves(digital maze.Rate) []maze.Move {
	var moves []maze.Move
	add := func(i maze.Intent, r maze.Rate) {
		if i != maze.None {
			moves = append(moves, maze.Move{Intent: i, Rate: r})
		}
	}

	k := s.Keys
	add(translation(k.Up || k.W, k.Down || k.S), digital)
	add(turn(k.Left || k.A, k.Right || k.D), digital)

	p := s.Pad
	add(translation(p.Up, p.Down), maze.PadRate)
	add(turn(p.Left, p.Right), maze.PadRate)
	return moves
}

func translation(up, down bool) maze.Intent {
	switch {
	case up:
		return maze.Forward
	case down:
		return maze.Backward
	}
	return maze.None
}

func turn(left, right bool) maze.Intent {
	switch {
	case left:
		return maze.TurnLeft
	case right:
		return maze.TurnRight
	}
	return maze.None
}
