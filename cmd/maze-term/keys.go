package main

import (
	"github.com/beka-birhanu/vinom-maze3d/input"
	"github.com/gdamore/tcell/v2"
)

type command uint8

const (
	cmdNone command = iota
	cmdQuit
	cmdRetry
)

// press folds a key event into the snapshot for the next tick. Terminals
// report no key releases, so every snapshot lasts exactly one tick.
// Arrows and w/a/s/d drive the keys; i/j/k/l drive the virtual pad.
func press(s *input.Snapshot, ev *tcell.EventKey) command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmdQuit
	case tcell.KeyUp:
		s.Keys.Up = true
	case tcell.KeyDown:
		s.Keys.Down = true
	case tcell.KeyLeft:
		s.Keys.Left = true
	case tcell.KeyRight:
		s.Keys.Right = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			s.Keys.W = true
		case 'a', 'A':
			s.Keys.A = true
		case 's', 'S':
			s.Keys.S = true
		case 'd', 'D':
			s.Keys.D = true
		case 'i':
			s.Pad.Up = true
		case 'k':
			s.Pad.Down = true
		case 'j':
			s.Pad.Left = true
		case 'l':
			s.Pad.Right = true
		case 'r':
			return cmdRetry
		case 'q':
			return cmdQuit
		}
	}
	return cmdNone
}
