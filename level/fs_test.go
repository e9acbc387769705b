package level

import (
	"context"
	"errors"
	"math"
	"testing"
	"testing/fstest"

	"github.com/beka-birhanu/vinom-maze3d/maze"
)

func TestDecodeForms(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantStart *maze.Cell
		wantErr   bool
	}{
		{"bare array", `[[0,2],["A",1]]`, nil, false},
		{"object with start", `{"start":[1,1],"grid":[[0,2],["A",1]]}`, &maze.Cell{Row: 1, Col: 1}, false},
		{"object without start", `{"grid":[[0]]}`, nil, false},
		{"bad start", `{"start":[1],"grid":[[0]]}`, nil, true},
		{"broken json", `[[0,`, nil, true},
		{"empty", ``, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ld, err := Decode([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, maze.ErrInvalidLevelData) {
					t.Fatalf("Decode error = %v, want ErrInvalidLevelData", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if (ld.Start == nil) != (tt.wantStart == nil) || (ld.Start != nil && *ld.Start != *tt.wantStart) {
				t.Errorf("Start = %v, want %v", ld.Start, tt.wantStart)
			}
			if _, err := maze.NewGrid(ld.Cells); err != nil {
				t.Errorf("decoded cells do not build a grid: %v", err)
			}
		})
	}
}

func TestFSSourceLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"maze3d-1.json": {Data: []byte(`[[0,"A"]]`)},
		"maze3d-2.json": {Data: []byte(`{"start":[0,1],"grid":[["A",0]]}`)},
		"maze3d-4.json": {Data: []byte(`[[0]]`)},
	}
	src := NewFSSource(fsys, 0)

	n, err := src.Count(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Count() = %d, %v, want 2 consecutive levels", n, err)
	}

	first, err := src.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load(1): %v", err)
	}
	if first.IsLast {
		t.Error("level 1 marked last")
	}

	second, err := src.Load(context.Background(), 2)
	if err != nil {
		t.Fatalf("Load(2): %v", err)
	}
	if !second.IsLast || second.Start == nil || *second.Start != (maze.Cell{Row: 0, Col: 1}) {
		t.Errorf("Load(2) = %+v, want last level starting at (0,1)", second)
	}

	for _, ordinal := range []int{0, 3, 4} {
		if _, err := src.Load(context.Background(), ordinal); !errors.Is(err, ErrLevelNotFound) {
			t.Errorf("Load(%d) error = %v, want ErrLevelNotFound", ordinal, err)
		}
	}
}

func TestFSSourceMissingFile(t *testing.T) {
	src := NewFSSource(fstest.MapFS{}, 2)
	if _, err := src.Load(context.Background(), 1); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Load error = %v, want ErrLevelNotFound", err)
	}
}

func TestFSSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewFSSource(fstest.MapFS{"maze3d-1.json": {Data: []byte(`[[0]]`)}}, 0)
	if _, err := src.Load(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Load error = %v, want context.Canceled", err)
	}
}

func TestEmbeddedLevelsArePlayable(t *testing.T) {
	src, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	n, _ := src.Count(context.Background())
	if n < 1 {
		t.Fatal("no bundled levels")
	}

	c, err := maze.NewController(maze.Config{Loader: src})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.Start(context.Background(), 1); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for ordinal := 1; ordinal <= n; ordinal++ {
		if err := c.Await(context.Background()); err != nil {
			t.Fatalf("level %d: %v", ordinal, err)
		}
		s := c.Session()
		if len(s.Level().Grid.Exits()) == 0 {
			t.Errorf("level %d has no exit", ordinal)
		}
		if s.Level().IsLast != (ordinal == n) {
			t.Errorf("level %d IsLast = %v", ordinal, s.Level().IsLast)
		}
		if err := walkToExit(c); err != nil {
			t.Fatalf("solving level %d: %v", ordinal, err)
		}
	}
	if c.State() != maze.Terminal {
		t.Errorf("state after last level = %v, want terminal", c.State())
	}
}

func TestEmbeddedFirstLevelHasNoEscapeAtStart(t *testing.T) {
	src, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	c, err := maze.NewController(maze.Config{Loader: src})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.Start(context.Background(), 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Await(context.Background()); err != nil {
		t.Fatalf("Await: %v", err)
	}

	quarterTurn := maze.Rate{Rotation: math.Pi / 2}
	turnLeft := []maze.Move{{Intent: maze.TurnLeft, Rate: quarterTurn}}
	forward := []maze.Move{{Intent: maze.Forward, Rate: maze.DefaultRate}}
	start := c.Session().Camera().Position

	// Two left turns face the near row edge, a third faces the near column edge.
	for turns := 1; turns <= 3; turns++ {
		if _, err := c.Tick(turnLeft); err != nil {
			t.Fatalf("turn %d: %v", turns, err)
		}
		if turns < 2 {
			continue
		}
		for i := 0; i < 4; i++ {
			rep, err := c.Tick(forward)
			if err != nil {
				t.Fatalf("turns %d step %d: %v", turns, i, err)
			}
			if got := rep.Resolutions[0].Outcome; got != maze.Blocked {
				t.Fatalf("turns %d step %d: outcome = %v, want blocked at the grid edge", turns, i, got)
			}
		}
		if pos := c.Session().Camera().Position; pos != start {
			t.Errorf("camera left the start cell: %v -> %v", start, pos)
		}
	}
}
