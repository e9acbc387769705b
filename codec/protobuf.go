// Package codec serialises the records exchanged with remote players.
package codec

import (
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/input"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Frame is the camera view broadcast to a player after a state change.
type Frame struct {
	Version  int64   // Engine version the frame was taken at.
	Level    int     // Level ordinal.
	State    string  // Lifecycle state name.
	X        float64 // Camera position x.
	Y        float64 // Camera height.
	Z        float64 // Camera position z.
	Rotation float64 // Camera heading, radians.
	Row      int     // Occupied cell row.
	Col      int     // Occupied cell column.
	Ended    bool    // The session is over.
	Error    string  // Load failure message, if parked.
}

// Protobuf encodes frames and input snapshots as protobuf Structs.
type Protobuf struct{}

// MarshalFrame encodes f.
func (Protobuf) MarshalFrame(f Frame) ([]byte, error) {
	s, err := structpb.NewStruct(FrameFields(f))
	if err != nil {
		return nil, fmt.Errorf("building frame: %w", err)
	}
	return proto.Marshal(s)
}

// UnmarshalFrame decodes a frame produced by MarshalFrame.
func (Protobuf) UnmarshalFrame(b []byte) (Frame, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return Frame{}, fmt.Errorf("decoding frame: %w", err)
	}
	return FrameFromStruct(&s), nil
}

// FrameFields lays f out as Struct fields.
func FrameFields(f Frame) map[string]any {
	return map[string]any{
		"version":  f.Version,
		"level":    f.Level,
		"state":    f.State,
		"x":        f.X,
		"y":        f.Y,
		"z":        f.Z,
		"rotation": f.Rotation,
		"row":      f.Row,
		"col":      f.Col,
		"ended":    f.Ended,
		"error":    f.Error,
	}
}

// FrameFromStruct reads a frame back; missing fields stay zero.
func FrameFromStruct(s *structpb.Struct) Frame {
	m := s.GetFields()
	return Frame{
		Version:  int64(m["version"].GetNumberValue()),
		Level:    int(m["level"].GetNumberValue()),
		State:    m["state"].GetStringValue(),
		X:        m["x"].GetNumberValue(),
		Y:        m["y"].GetNumberValue(),
		Z:        m["z"].GetNumberValue(),
		Rotation: m["rotation"].GetNumberValue(),
		Row:      int(m["row"].GetNumberValue()),
		Col:      int(m["col"].GetNumberValue()),
		Ended:    m["ended"].GetBoolValue(),
		Error:    m["error"].GetStringValue(),
	}
}

// MarshalInput encodes a held input snapshot.
func (Protobuf) MarshalInput(in input.Snapshot) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		"up":        in.Keys.Up,
		"left":      in.Keys.Left,
		"down":      in.Keys.Down,
		"right":     in.Keys.Right,
		"w":         in.Keys.W,
		"a":         in.Keys.A,
		"s":         in.Keys.S,
		"d":         in.Keys.D,
		"pad_up":    in.Pad.Up,
		"pad_left":  in.Pad.Left,
		"pad_down":  in.Pad.Down,
		"pad_right": in.Pad.Right,
	})
	if err != nil {
		return nil, fmt.Errorf("building input: %w", err)
	}
	return proto.Marshal(s)
}

// UnmarshalInput decodes an input snapshot; absent keys are released.
func (Protobuf) UnmarshalInput(b []byte) (input.Snapshot, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return input.Snapshot{}, fmt.Errorf("decoding input: %w", err)
	}

	m := s.GetFields()
	held := func(k string) bool { return m[k].GetBoolValue() }
	return input.Snapshot{
		Keys: input.Keys{
			Up: held("up"), Left: held("left"), Down: held("down"), Right: held("right"),
			W: held("w"), A: held("a"), S: held("s"), D: held("d"),
		},
		Pad: input.Pad{
			Up: held("pad_up"), Left: held("pad_left"), Down: held("pad_down"), Right: held("pad_right"),
		},
	}, nil
}
