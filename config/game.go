package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/beka-birhanu/vinom-maze3d/maze"
)

// Level sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceSQL      = "sql"
)

// Game holds the gameplay tunables. Every field has a default.
type Game struct {
	CellSize        float64       `env:"CELL_SIZE" envDefault:"100"`
	CameraHeight    float64       `env:"CAMERA_HEIGHT" envDefault:"50"`
	TranslationStep float64       `env:"TRANSLATION_STEP" envDefault:"50"`
	RotationStep    float64       `env:"ROTATION_STEP" envDefault:"0.05"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"16ms"`

	FirstLevel  int    `env:"FIRST_LEVEL" envDefault:"1"`
	LevelSource string `env:"LEVEL_SOURCE" envDefault:"embedded"`
	LevelDir    string `env:"LEVEL_DIR" envDefault:"./assets/maps"`
	LevelCount  int    `env:"LEVEL_COUNT" envDefault:"0"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// LoadGame parses the gameplay configuration from the environment.
func LoadGame() (Game, error) {
	_ = godotenv.Load()

	var g Game
	if err := env.Parse(&g); err != nil {
		return Game{}, fmt.Errorf("parse env: %w", err)
	}
	if err := g.validate(); err != nil {
		return Game{}, err
	}
	return g, nil
}

func (g Game) validate() error {
	var errs []error
	if !(g.CellSize > 0) {
		errs = append(errs, errors.New("CELL_SIZE must be positive"))
	}
	if g.TranslationStep < 0 || g.RotationStep < 0 {
		errs = append(errs, errors.New("TRANSLATION_STEP and ROTATION_STEP must not be negative"))
	}
	if g.TickInterval <= 0 {
		errs = append(errs, errors.New("TICK_INTERVAL must be positive"))
	}
	if g.FirstLevel < 1 {
		errs = append(errs, errors.New("FIRST_LEVEL must be at least 1"))
	}
	switch g.LevelSource {
	case SourceEmbedded, SourceFile:
	case SourceSQL:
		if g.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when LEVEL_SOURCE=sql"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEVEL_SOURCE %q", g.LevelSource))
	}
	return errors.Join(errs...)
}

// Layout returns the world layout for the configured cell size.
func (g Game) Layout() maze.Layout {
	return maze.Layout{CellSize: g.CellSize, Anchor: maze.Point{Y: g.CameraHeight}}
}

// Rate returns the digital input rate.
func (g Game) Rate() maze.Rate {
	return maze.Rate{Translation: g.TranslationStep, Rotation: g.RotationStep}
}
