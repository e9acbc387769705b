package level

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/beka-birhanu/vinom-maze3d/assets"
	"github.com/beka-birhanu/vinom-maze3d/maze"
)

// FSSource reads maze3d-<n>.json files from a file system.
type FSSource struct {
	fsys  fs.FS // Directory holding the level files.
	count int   // Number of levels; the last one ends the session.
}

// NewFSSource returns a source over fsys. A count of zero counts the
// consecutive level files starting at maze3d-1.json.
func NewFSSource(fsys fs.FS, count int) *FSSource {
	if count <= 0 {
		count = discover(fsys)
	}
	return &FSSource{fsys: fsys, count: count}
}

// NewDirSource returns a source over a directory on disk.
func NewDirSource(dir string, count int) *FSSource {
	return NewFSSource(os.DirFS(dir), count)
}

// Embedded returns a source over the bundled levels.
func Embedded() (*FSSource, error) {
	sub, err := fs.Sub(assets.Maps, "maps")
	if err != nil {
		return nil, err
	}
	return NewFSSource(sub, 0), nil
}

func discover(fsys fs.FS) int {
	n := 0
	for {
		if _, err := fs.Stat(fsys, FileName(n+1)); err != nil {
			return n
		}
		n++
	}
}

// Load reads and decodes one level.
func (s *FSSource) Load(ctx context.Context, ordinal int) (maze.LevelData, error) {
	if err := ctx.Err(); err != nil {
		return maze.LevelData{}, err
	}
	if ordinal < 1 || ordinal > s.count {
		return maze.LevelData{}, fmt.Errorf("%w: %d of %d", ErrLevelNotFound, ordinal, s.count)
	}

	data, err := fs.ReadFile(s.fsys, FileName(ordinal))
	if errors.Is(err, fs.ErrNotExist) {
		return maze.LevelData{}, fmt.Errorf("%w: %s", ErrLevelNotFound, FileName(ordinal))
	}
	if err != nil {
		return maze.LevelData{}, fmt.Errorf("reading %s: %w", FileName(ordinal), err)
	}

	ld, err := Decode(data)
	if err != nil {
		return maze.LevelData{}, fmt.Errorf("%s: %w", FileName(ordinal), err)
	}
	ld.IsLast = ordinal >= s.count
	return ld, nil
}

// Count returns the number of levels.
func (s *FSSource) Count(context.Context) (int, error) {
	return s.count, nil
}
