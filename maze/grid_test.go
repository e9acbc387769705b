package maze

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    CellKind
		wantErr bool
	}{
		{"zero is open", 0, Open, false},
		{"one is open", 1, Open, false},
		{"float one is open", 1.0, Open, false},
		{"two is wall", 2, Wall, false},
		{"large number is wall", 9, Wall, false},
		{"fraction above one is wall", 1.5, Wall, false},
		{"json number wall", json.Number("3"), Wall, false},
		{"int8 wall", int8(2), Wall, false},
		{"int16 open", int16(1), Open, false},
		{"int32 wall", int32(5), Wall, false},
		{"uint open", uint(1), Open, false},
		{"uint16 wall", uint16(7), Wall, false},
		{"uint32 open", uint32(0), Open, false},
		{"uint64 wall", uint64(1 << 40), Wall, false},
		{"uintptr wall", uintptr(2), Wall, false},
		{"negative int8", int8(-3), 0, true},
		{"exit marker", "A", Exit, false},
		{"negative number", -1, 0, true},
		{"fraction below one", 0.5, 0, true},
		{"unknown string", "B", 0, true},
		{"lowercase marker", "a", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLevelData) {
					t.Fatalf("Classify(%#v) error = %v, want ErrInvalidLevelData", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify(%#v) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%#v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewGridRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]any
	}{
		{"nil grid", nil},
		{"no rows", [][]any{}},
		{"empty row", [][]any{{}}},
		{"ragged rows", [][]any{{0, 1}, {0}}},
		{"unclassified cell", [][]any{{0, 1}, {0, "?"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGrid(tt.raw); !errors.Is(err, ErrInvalidLevelData) {
				t.Errorf("NewGrid() error = %v, want ErrInvalidLevelData", err)
			}
		})
	}
}

func TestGridCellAt(t *testing.T) {
	g, err := NewGrid([][]any{{0, 1, 2}, {1, 1, 2}, {"A", 1, 2}})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	rows, cols := g.Dimensions()
	if rows != 3 || cols != 3 {
		t.Fatalf("Dimensions() = %d,%d, want 3,3", rows, cols)
	}

	want := [][]CellKind{{Open, Open, Wall}, {Open, Open, Wall}, {Exit, Open, Wall}}
	for r := range want {
		for c := range want[r] {
			got, err := g.CellAt(r, c)
			if err != nil {
				t.Fatalf("CellAt(%d,%d): %v", r, c, err)
			}
			if got != want[r][c] {
				t.Errorf("CellAt(%d,%d) = %v, want %v", r, c, got, want[r][c])
			}
		}
	}

	for _, c := range []Cell{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if _, err := g.CellAt(c.Row, c.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("CellAt(%v) error = %v, want ErrOutOfBounds", c, err)
		}
	}
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid([]byte(`[[2,2,2],[2,0,"A"],[2,2,2]]`))
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}

	exits := g.Exits()
	if len(exits) != 1 || exits[0] != (Cell{Row: 1, Col: 2}) {
		t.Errorf("Exits() = %v, want [(1,2)]", exits)
	}

	want := "###\n#.A\n###"
	if got := g.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if _, err := ParseGrid([]byte(`{"not":"a grid"}`)); !errors.Is(err, ErrInvalidLevelData) {
		t.Errorf("ParseGrid(object) error = %v, want ErrInvalidLevelData", err)
	}
}
