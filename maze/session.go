package maze

// DefaultHeading is the camera rotation at level start.
const DefaultHeading = 0.0

// CameraState is the committed camera pose.
type CameraState struct {
	Position Point   // World position; only X and Z move.
	Rotation float64 // Heading about the vertical axis, radians.
}

// LevelDescriptor identifies a loaded level.
type LevelDescriptor struct {
	Ordinal int   // 1-based level number.
	Grid    *Grid // Occupancy grid, immutable for the level.
	Start   Cell  // Cell the camera starts in.
	IsLast  bool  // Completing this level ends the session.
}

// Session owns everything that lives for exactly one level: the descriptor,
// the camera and the mapper origin. It is replaced wholesale on advance.
type Session struct {
	level  LevelDescriptor
	layout Layout
	camera CameraState
	mapper Mapper
}

func newSession(level LevelDescriptor, layout Layout) *Session {
	return &Session{
		level:  level,
		layout: layout,
		camera: CameraState{
			Position: layout.CellCenter(level.Start),
			Rotation: DefaultHeading,
		},
	}
}

// Level returns the level descriptor.
func (s *Session) Level() LevelDescriptor {
	return s.level
}

// Camera returns a copy of the committed camera state.
func (s *Session) Camera() CameraState {
	return s.camera
}

// Origin returns the mapper origin and whether it has been recorded yet.
func (s *Session) Origin() (Point, bool) {
	return s.mapper.Origin()
}

// Occupied returns the clamped cell under the camera's footprint.
func (s *Session) Occupied() Cell {
	m := s.mapper
	m.SetOrigin(s.layout.Anchor)
	rows, cols := s.level.Grid.Dimensions()
	return Clamp(m.CellFor(s.camera.Position, s.layout.CellSize, s.layout.Lookahead()), rows, cols)
}
