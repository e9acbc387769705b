package main

import (
	"fmt"
	"math"

	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/gdamore/tcell/v2"
)

const objective = "Find the exit (A). Arrows/WASD move, IJKL pad, r retry, Esc quit."

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	openStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	exitStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	cameraStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// headingArrows are indexed by the heading quadrant; heading 0 faces down
// the minimap because forward increases the row.
var headingArrows = [4]rune{'v', '>', '^', '<'}

func arrow(rotation float64) rune {
	q := int(math.Round(rotation/(math.Pi/2))) % 4
	if q < 0 {
		q += 4
	}
	return headingArrows[q]
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// draw renders the minimap with the camera and a status block below it.
func draw(s tcell.Screen, c *maze.Controller, p *progress) {
	s.Clear()

	drawText(s, 0, 0, statusStyle, objective)
	y := 2
	if sess := c.Session(); sess != nil {
		y = drawMinimap(s, sess, y)
		cam := sess.Camera()
		cell := sess.Occupied()
		drawText(s, 0, y+1, statusStyle, fmt.Sprintf("level %d  %s  cell %v  x=%.1f z=%.1f  heading %.2f",
			c.Level(), c.State(), cell, cam.Position.X, cam.Position.Z, cam.Rotation))
	} else {
		drawText(s, 0, y, statusStyle, fmt.Sprintf("loading level %d...", c.Level()))
	}
	if err := c.Err(); err != nil {
		drawText(s, 0, y+2, errorStyle, fmt.Sprintf("%s (press r to retry)", err))
	} else if p.tickErr != nil {
		drawText(s, 0, y+2, errorStyle, fmt.Sprintf("tick failed: %s", p.tickErr))
	}
	if p.message != "" {
		drawText(s, 0, y+3, exitStyle, p.message)
	}
	s.Show()
}

func drawMinimap(s tcell.Screen, sess *maze.Session, top int) int {
	grid := sess.Level().Grid
	here := sess.Occupied()
	rows, cols := grid.Dimensions()

	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			kind, _ := grid.CellAt(r, col)
			ch, style := '.', openStyle
			switch kind {
			case maze.Wall:
				ch, style = '#', wallStyle
			case maze.Exit:
				ch, style = 'A', exitStyle
			}
			if r == here.Row && col == here.Col {
				ch, style = arrow(sess.Camera().Rotation), cameraStyle
			}
			s.SetContent(col*2, top+r, ch, nil, style)
		}
	}
	return top + rows
}
