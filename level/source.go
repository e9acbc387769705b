// Package level provides the loaders that feed levels to the maze engine.
package level

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/maze"
)

// ErrLevelNotFound is returned when no level exists for an ordinal.
var ErrLevelNotFound = errors.New("level not found")

// Source loads raw level payloads by ordinal.
type Source interface {
	maze.Loader

	// Count returns the number of levels available.
	Count(ctx context.Context) (int, error)
}

// document is the object form of a level file. The bare array form holds
// only the grid.
type document struct {
	Start []int           `json:"start"`
	Grid  json.RawMessage `json:"grid"`
}

// Decode parses a level file in either form.
func Decode(data []byte) (maze.LevelData, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		cells, err := maze.DecodeRaw(data)
		if err != nil {
			return maze.LevelData{}, err
		}
		return maze.LevelData{Cells: cells}, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return maze.LevelData{}, fmt.Errorf("%w: %v", maze.ErrInvalidLevelData, err)
	}

	cells, err := maze.DecodeRaw(doc.Grid)
	if err != nil {
		return maze.LevelData{}, err
	}

	ld := maze.LevelData{Cells: cells}
	if doc.Start != nil {
		if len(doc.Start) != 2 {
			return maze.LevelData{}, fmt.Errorf("%w: start must be [row, col], got %v", maze.ErrInvalidLevelData, doc.Start)
		}
		ld.Start = &maze.Cell{Row: doc.Start[0], Col: doc.Start[1]}
	}
	return ld, nil
}

// FileName returns the file name used for a level ordinal.
func FileName(ordinal int) string {
	return fmt.Sprintf("maze3d-%d.json", ordinal)
}

// encodeCells renders raw cells back to the bare array form.
func encodeCells(cells [][]any) ([]byte, error) {
	data, err := json.Marshal(cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", maze.ErrInvalidLevelData, err)
	}
	return data, nil
}
