package maze

import "math"

// maxIndex bounds float-to-int conversion of cell indices; anything past it
// is clamped onto the grid anyway.
const maxIndex = math.MaxInt32

// Point is a position in world space. Y is carried for renderers only.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Layout places a level's grid in world space.
type Layout struct {
	CellSize float64 // Edge length of one cell in world units.
	Anchor   Point   // World position of the center of cell (0,0).
}

// DefaultLayout uses 100 unit cells with the camera at height 50.
var DefaultLayout = Layout{CellSize: 100, Anchor: Point{Y: 50}}

// CellCenter returns the world position of the center of c.
func (l Layout) CellCenter(c Cell) Point {
	return Point{
		X: l.Anchor.X - float64(c.Col)*l.CellSize,
		Y: l.Anchor.Y,
		Z: l.Anchor.Z - float64(c.Row)*l.CellSize,
	}
}

// Lookahead is the offset added to a proposed position so the cell the
// camera footprint is entering gets tested.
func (l Layout) Lookahead() float64 {
	return l.CellSize / 2
}

// Mapper converts world positions to grid cells relative to a per-level
// origin.
type Mapper struct {
	origin Point
	set    bool
}

// SetOrigin anchors the mapper. Only the first call has an effect.
func (m *Mapper) SetOrigin(p Point) {
	if m.set {
		return
	}
	m.origin = p
	m.set = true
}

// Origin returns the anchor and whether it has been set.
func (m *Mapper) Origin() (Point, bool) {
	return m.origin, m.set
}

// CellFor maps pos to the cell it occupies. offset extends the distance
// from the origin on both axes before flooring.
func (m *Mapper) CellFor(pos Point, cellSize, offset float64) Cell {
	return Cell{
		Row: index(m.origin.Z-pos.Z, cellSize, offset),
		Col: index(m.origin.X-pos.X, cellSize, offset),
	}
}

// Locate is CellFor without the fold at the origin: positions on the near
// side map to negative indices once the offset footprint leaves cell 0, so
// they can be told apart from cells on the grid.
func (m *Mapper) Locate(pos Point, cellSize, offset float64) Cell {
	return Cell{
		Row: signedIndex(m.origin.Z-pos.Z, cellSize, offset),
		Col: signedIndex(m.origin.X-pos.X, cellSize, offset),
	}
}

func signedIndex(delta, cellSize, offset float64) int {
	if delta < 0 {
		return -index(delta, cellSize, offset)
	}
	return index(delta, cellSize, offset)
}

func index(delta, cellSize, offset float64) int {
	v := math.Floor((math.Abs(delta) + offset) / cellSize)
	if !(v < maxIndex) {
		return maxIndex
	}
	return int(v)
}

// Clamp pulls c into [0,rows-1] x [0,cols-1].
func Clamp(c Cell, rows, cols int) Cell {
	return Cell{Row: clampInt(c.Row, rows-1), Col: clampInt(c.Col, cols-1)}
}

func clampInt(v, hi int) int {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}
