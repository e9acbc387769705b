package level

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/maze"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	createLevelsTable = `CREATE TABLE IF NOT EXISTS levels (
	ordinal   INTEGER PRIMARY KEY,
	grid      TEXT    NOT NULL,
	start_row INTEGER NOT NULL DEFAULT 0,
	start_col INTEGER NOT NULL DEFAULT 0
)`

	upsertLevel = `INSERT INTO levels (ordinal, grid, start_row, start_col)
VALUES ($1, $2, $3, $4)
ON CONFLICT (ordinal) DO UPDATE SET grid = excluded.grid, start_row = excluded.start_row, start_col = excluded.start_col`

	selectLevel = `SELECT grid, start_row, start_col FROM levels WHERE ordinal = $1`

	countLevels = `SELECT COALESCE(MAX(ordinal), 0) FROM levels`
)

// SQLSource serves levels from a "levels" table.
type SQLSource struct {
	db *sql.DB
}

// OpenSQL opens and pings a database with one of the supported drivers.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLSource, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported level database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Each in-memory sqlite connection is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s: %w", driver, err)
	}
	return &SQLSource{db: db}, nil
}

// NewSQLSource wraps an open database.
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Migrate creates the levels table if it does not exist.
func (s *SQLSource) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createLevelsTable); err != nil {
		return fmt.Errorf("creating levels table: %w", err)
	}
	return nil
}

// Save validates a JSON grid and stores it under ordinal.
func (s *SQLSource) Save(ctx context.Context, ordinal int, grid []byte, start maze.Cell) error {
	if ordinal < 1 {
		return maze.ErrInvalidOrdinal
	}
	if _, err := maze.ParseGrid(grid); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertLevel, ordinal, string(grid), start.Row, start.Col); err != nil {
		return fmt.Errorf("saving level %d: %w", ordinal, err)
	}
	return nil
}

// Load reads one level.
func (s *SQLSource) Load(ctx context.Context, ordinal int) (maze.LevelData, error) {
	var (
		grid  string
		start maze.Cell
	)
	err := s.db.QueryRowContext(ctx, selectLevel, ordinal).Scan(&grid, &start.Row, &start.Col)
	if errors.Is(err, sql.ErrNoRows) {
		return maze.LevelData{}, fmt.Errorf("%w: %d", ErrLevelNotFound, ordinal)
	}
	if err != nil {
		return maze.LevelData{}, fmt.Errorf("querying level %d: %w", ordinal, err)
	}

	cells, err := maze.DecodeRaw([]byte(grid))
	if err != nil {
		return maze.LevelData{}, fmt.Errorf("level %d: %w", ordinal, err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		return maze.LevelData{}, err
	}

	return maze.LevelData{
		Cells:  cells,
		Start:  &start,
		IsLast: ordinal >= count,
	}, nil
}

// Count returns the highest stored ordinal.
func (s *SQLSource) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countLevels).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting levels: %w", err)
	}
	return n, nil
}

// Import copies every level of src into the table.
func (s *SQLSource) Import(ctx context.Context, src *FSSource) (int, error) {
	for n := 1; n <= src.count; n++ {
		ld, err := src.Load(ctx, n)
		if err != nil {
			return n - 1, err
		}
		grid, err := encodeCells(ld.Cells)
		if err != nil {
			return n - 1, err
		}
		var start maze.Cell
		if ld.Start != nil {
			start = *ld.Start
		}
		if err := s.Save(ctx, n, grid, start); err != nil {
			return n - 1, err
		}
	}
	return src.count, nil
}

// Close closes the database.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
