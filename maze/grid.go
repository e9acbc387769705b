package maze

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CellKind is the classification of a single maze cell.
type CellKind uint8

const (
	Open CellKind = iota // Walkable floor, raw value 0 or 1.
	Wall                 // Solid block, any raw number above 1.
	Exit                 // Level exit, raw marker "A".
)

// exitMarker is the raw value level files use for the exit cell.
const exitMarker = "A"

func (k CellKind) String() string {
	switch k {
	case Open:
		return "open"
	case Wall:
		return "wall"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("CellKind(%d)", uint8(k))
}

// glyph is the minimap character for the kind.
func (k CellKind) glyph() byte {
	switch k {
	case Wall:
		return '#'
	case Exit:
		return 'A'
	}
	return '.'
}

// Cell addresses one grid position.
type Cell struct {
	Row int // Row index, grows along world -z.
	Col int // Column index, grows along world -x.
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is the occupancy grid of one level. It is immutable once built.
type Grid struct {
	cells [][]CellKind
	rows  int
	cols  int
}

// Classify maps a raw level value to its CellKind. Numbers may arrive as
// float64 (encoding/json), json.Number or any Go integer type.
func Classify(v any) (CellKind, error) {
	switch n := v.(type) {
	case string:
		if n == exitMarker {
			return Exit, nil
		}
	case json.Number:
		f, err := n.Float64()
		if err == nil {
			return classifyNumber(f, v)
		}
	case float64:
		return classifyNumber(n, v)
	case float32:
		return classifyNumber(float64(n), v)
	case int:
		return classifyNumber(float64(n), v)
	case int8:
		return classifyNumber(float64(n), v)
	case int16:
		return classifyNumber(float64(n), v)
	case int32:
		return classifyNumber(float64(n), v)
	case int64:
		return classifyNumber(float64(n), v)
	case uint:
		return classifyNumber(float64(n), v)
	case uint8:
		return classifyNumber(float64(n), v)
	case uint16:
		return classifyNumber(float64(n), v)
	case uint32:
		return classifyNumber(float64(n), v)
	case uint64:
		return classifyNumber(float64(n), v)
	case uintptr:
		return classifyNumber(float64(n), v)
	}
	return 0, fmt.Errorf("%w: unclassifiable cell value %#v", ErrInvalidLevelData, v)
}

func classifyNumber(f float64, raw any) (CellKind, error) {
	switch {
	case f == 0 || f == 1:
		return Open, nil
	case f > 1:
		return Wall, nil
	}
	return 0, fmt.Errorf("%w: unclassifiable cell value %#v", ErrInvalidLevelData, raw)
}

// NewGrid classifies every raw cell and validates the grid shape.
func NewGrid(raw [][]any) (*Grid, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: grid has no rows", ErrInvalidLevelData)
	}

	cols := len(raw[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: grid has no columns", ErrInvalidLevelData)
	}

	cells := make([][]CellKind, len(raw))
	for r, row := range raw {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidLevelData, r, len(row), cols)
		}
		cells[r] = make([]CellKind, cols)
		for c, v := range row {
			kind, err := Classify(v)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			cells[r][c] = kind
		}
	}

	return &Grid{cells: cells, rows: len(raw), cols: cols}, nil
}

// DecodeRaw decodes the JSON map format: an array of rows holding numbers
// and the exit marker.
func DecodeRaw(data []byte) ([][]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw [][]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevelData, err)
	}
	return raw, nil
}

// ParseGrid decodes and validates a JSON map.
func ParseGrid(data []byte) (*Grid, error) {
	raw, err := DecodeRaw(data)
	if err != nil {
		return nil, err
	}
	return NewGrid(raw)
}

// Dimensions returns the number of rows and columns.
func (g *Grid) Dimensions() (rows, cols int) {
	return g.rows, g.cols
}

// InBound reports whether the cell lies inside the grid.
func (g *Grid) InBound(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// CellAt returns the kind of the cell at row, col.
func (g *Grid) CellAt(row, col int) (CellKind, error) {
	if !g.InBound(Cell{Row: row, Col: col}) {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	return g.cells[row][col], nil
}

// Exits lists the exit cells in row-major order.
func (g *Grid) Exits() []Cell {
	var exits []Cell
	for r, row := range g.cells {
		for c, kind := range row {
			if kind == Exit {
				exits = append(exits, Cell{Row: r, Col: c})
			}
		}
	}
	return exits
}

// Rows renders the grid as one string per row: '.' open, '#' wall, 'A' exit.
func (g *Grid) Rows() []string {
	out := make([]string, g.rows)
	buf := make([]byte, g.cols)
	for r, row := range g.cells {
		for c, kind := range row {
			buf[c] = kind.glyph()
		}
		out[r] = string(buf)
	}
	return out
}

func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
