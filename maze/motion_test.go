package maze

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestProposeTranslation(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		intent   Intent
		wantX    float64
		wantZ    float64
	}{
		{"forward at heading zero", 0, Forward, 0, -10},
		{"backward at heading zero", 0, Backward, 0, 10},
		{"forward after quarter turn left", math.Pi / 2, Forward, -10, 0},
		{"backward after quarter turn left", math.Pi / 2, Backward, 10, 0},
		{"forward after half turn", math.Pi, Forward, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := CameraState{Rotation: tt.rotation}
			p := Propose(cam, Move{Intent: tt.intent, Rate: Rate{Translation: 10, Rotation: 0.1}})

			if !near(p.Position.X, tt.wantX) || !near(p.Position.Z, tt.wantZ) {
				t.Errorf("position = (%v,%v), want (%v,%v)", p.Position.X, p.Position.Z, tt.wantX, tt.wantZ)
			}
			if p.Rotation != tt.rotation {
				t.Errorf("translation changed rotation: %v -> %v", tt.rotation, p.Rotation)
			}
		})
	}
}

func TestProposeTurnKeepsPosition(t *testing.T) {
	cam := CameraState{Position: Point{X: 12, Y: 50, Z: -34}, Rotation: 1}
	rate := Rate{Translation: 10, Rotation: 0.25}

	left := Propose(cam, Move{Intent: TurnLeft, Rate: rate})
	if left.Position != cam.Position || !near(left.Rotation, 1.25) {
		t.Errorf("TurnLeft = %+v, want position %v rotation 1.25", left, cam.Position)
	}

	right := Propose(cam, Move{Intent: TurnRight, Rate: rate})
	if right.Position != cam.Position || !near(right.Rotation, 0.75) {
		t.Errorf("TurnRight = %+v, want position %v rotation 0.75", right, cam.Position)
	}

	none := Propose(cam, Move{Intent: None, Rate: rate})
	if none.Position != cam.Position || none.Rotation != cam.Rotation {
		t.Errorf("None = %+v, want unchanged %+v", none, cam)
	}
}

func TestProposeDoesNotMutateInput(t *testing.T) {
	cam := CameraState{Position: Point{X: 1, Z: 2}, Rotation: 0.3}
	before := cam
	_ = Propose(cam, Move{Intent: Forward, Rate: DefaultRate})
	if cam != before {
		t.Errorf("camera mutated: %+v -> %+v", before, cam)
	}
}
