package level

import (
	"errors"
	"fmt"
	"math"

	"github.com/beka-birhanu/vinom-maze3d/maze"
)

// walkToExit drives the running level's camera along a shortest path to an
// exit using quarter turns and one-cell steps.
func walkToExit(c *maze.Controller) error {
	s := c.Session()
	path, err := shortestPath(s.Level().Grid, s.Level().Start)
	if err != nil {
		return err
	}

	step := maze.Rate{Translation: maze.DefaultLayout.CellSize, Rotation: math.Pi / 2}
	heading := 0
	for i := 1; i < len(path); i++ {
		want := quarter(path[i-1], path[i])
		for heading != want {
			if _, err := c.Tick([]maze.Move{{Intent: maze.TurnLeft, Rate: step}}); err != nil {
				return err
			}
			heading = (heading + 1) % 4
		}

		rep, err := c.Tick([]maze.Move{{Intent: maze.Forward, Rate: step}})
		if err != nil {
			return err
		}
		if len(rep.Resolutions) != 1 {
			return fmt.Errorf("step to %v resolved %d moves", path[i], len(rep.Resolutions))
		}
		got := rep.Resolutions[0]
		last := i == len(path)-1
		switch {
		case last && !rep.Completed:
			return fmt.Errorf("exit %v not reached: %+v", path[i], got)
		case !last && got.Outcome != maze.Moved:
			return fmt.Errorf("step to %v: %+v", path[i], got)
		}
	}
	return nil
}

// quarter is the number of left quarter turns from the start heading that
// face from toward to.
func quarter(from, to maze.Cell) int {
	switch {
	case to.Row > from.Row:
		return 0
	case to.Col > from.Col:
		return 1
	case to.Row < from.Row:
		return 2
	}
	return 3
}

func shortestPath(g *maze.Grid, start maze.Cell) ([]maze.Cell, error) {
	prev := map[maze.Cell]maze.Cell{start: start}
	queue := []maze.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if kind, _ := g.CellAt(cur.Row, cur.Col); kind == maze.Exit {
			var path []maze.Cell
			for c := cur; c != start; c = prev[c] {
				path = append([]maze.Cell{c}, path...)
			}
			return append([]maze.Cell{start}, path...), nil
		}

		for _, d := range []maze.Cell{{Row: 1}, {Col: 1}, {Row: -1}, {Col: -1}} {
			next := maze.Cell{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
			if _, seen := prev[next]; seen || !g.InBound(next) {
				continue
			}
			if kind, _ := g.CellAt(next.Row, next.Col); kind == maze.Wall {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}
	return nil, errors.New("no path to an exit")
}
