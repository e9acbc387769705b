package config

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/maze"
)

func TestLoadGameDefaults(t *testing.T) {
	g, err := LoadGame()
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if g.CellSize != 100 || g.TickInterval != 16*time.Millisecond || g.FirstLevel != 1 {
		t.Errorf("defaults = %+v", g)
	}
	if g.LevelSource != SourceEmbedded {
		t.Errorf("LevelSource = %q, want %q", g.LevelSource, SourceEmbedded)
	}
	if g.Layout() != maze.DefaultLayout {
		t.Errorf("Layout() = %+v, want %+v", g.Layout(), maze.DefaultLayout)
	}
	if g.Rate() != maze.DefaultRate {
		t.Errorf("Rate() = %+v, want %+v", g.Rate(), maze.DefaultRate)
	}
}

func TestLoadGameOverrides(t *testing.T) {
	t.Setenv("CELL_SIZE", "64")
	t.Setenv("TRANSLATION_STEP", "8")
	t.Setenv("TICK_INTERVAL", "33ms")
	t.Setenv("LEVEL_SOURCE", "file")
	t.Setenv("LEVEL_DIR", "/srv/maps")

	g, err := LoadGame()
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if g.CellSize != 64 || g.TranslationStep != 8 || g.TickInterval != 33*time.Millisecond {
		t.Errorf("overrides not applied: %+v", g)
	}
	if g.LevelSource != SourceFile || g.LevelDir != "/srv/maps" {
		t.Errorf("level source = %q %q", g.LevelSource, g.LevelDir)
	}
}

func TestLoadGameRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero cell size", map[string]string{"CELL_SIZE": "0"}},
		{"unparsable float", map[string]string{"ROTATION_STEP": "fast"}},
		{"first level zero", map[string]string{"FIRST_LEVEL": "0"}},
		{"unknown source", map[string]string{"LEVEL_SOURCE": "ftp"}},
		{"sql without url", map[string]string{"LEVEL_SOURCE": "sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadGame(); err == nil {
				t.Error("LoadGame accepted invalid configuration")
			}
		})
	}
}
