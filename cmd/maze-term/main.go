// Command maze-term plays the maze levels locally in a terminal, drawing the
// top-down minimap instead of the 3D view.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-maze3d/config"
	"github.com/beka-birhanu/vinom-maze3d/input"
	"github.com/beka-birhanu/vinom-maze3d/level"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/gdamore/tcell/v2"
)

const endLinger = 2 * time.Second

// progress records lifecycle notifications for the status line.
type progress struct {
	message string
	ended   bool
	tickErr error // Last tick failure the controller did not park.
}

func (p *progress) LevelStarted(maze.LevelDescriptor) {}
func (p *progress) CellOccupied(int, maze.Cell)       {}

func (p *progress) LevelCompleted(level int) {
	p.message = fmt.Sprintf("Level %d complete!", level)
}

func (p *progress) SessionEnded() {
	p.ended = true
	p.message = "All levels complete. Well done!"
}

// noteTick records err unless it is the parked load error the status line
// already shows through c.Err.
func (p *progress) noteTick(c *maze.Controller, err error) {
	if err != nil && err != c.Err() {
		p.tickErr = err
	}
}

func openSource(g config.Game) (level.Source, error) {
	switch g.LevelSource {
	case config.SourceFile:
		return level.NewDirSource(g.LevelDir, g.LevelCount), nil
	case config.SourceSQL:
		src, err := level.OpenSQL(context.Background(), g.DBDriver, g.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return level.Embedded()
	}
}

func run(screen tcell.Screen, c *maze.Controller, p *progress, tick time.Duration, rate maze.Rate) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pressed input.Snapshot
	var endedAt time.Time
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch press(&pressed, ev) {
				case cmdQuit:
					return
				case cmdRetry:
					_ = c.Retry(context.Background())
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			_, err := c.Tick(pressed.Moves(rate))
			p.noteTick(c, err)
			pressed = input.Snapshot{}
			draw(screen, c, p)

			if p.ended {
				if endedAt.IsZero() {
					endedAt = time.Now()
				} else if time.Since(endedAt) > endLinger {
					return
				}
			}
		}
	}
}

func main() {
	appLogger, _ := logger.New("MAZE-TERM", config.ColorGreen, os.Stderr)

	g, err := config.LoadGame()
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading game configuration: %v", err))
		os.Exit(1)
	}
	src, err := openSource(g)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Opening levels: %v", err))
		os.Exit(1)
	}

	p := &progress{}
	c, err := maze.NewController(maze.Config{Loader: src, Layout: g.Layout(), Observer: p})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating controller: %v", err))
		os.Exit(1)
	}
	if err := c.Start(context.Background(), g.FirstLevel); err != nil {
		appLogger.Error(fmt.Sprintf("Starting level %d: %v", g.FirstLevel, err))
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating screen: %v", err))
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		appLogger.Error(fmt.Sprintf("Initialising screen: %v", err))
		os.Exit(1)
	}

	run(screen, c, p, g.TickInterval, g.Rate())
	screen.Fini()

	if p.tickErr != nil {
		appLogger.Error(fmt.Sprintf("Tick failed: %v", p.tickErr))
	}
	if p.ended {
		appLogger.Info(fmt.Sprintf("Completed %d levels", c.Level()-g.FirstLevel+1))
	} else if err := c.Err(); err != nil {
		appLogger.Warning(fmt.Sprintf("Quit while parked: %v", err))
	}
}
