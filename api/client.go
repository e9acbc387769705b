package api

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/codec"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the vinom.maze.Session service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, playerID uuid.UUID) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{playerIDField: playerID.String()})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewSession starts a run for playerID and returns the session ID.
func (c *Client) NewSession(ctx context.Context, playerID uuid.UUID) (uuid.UUID, error) {
	out, err := c.invoke(ctx, NewSessionMethod, playerID)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(out.GetFields()[sessionIDField].GetStringValue())
}

// SessionInfo returns the socket public key and address.
func (c *Client) SessionInfo(ctx context.Context, playerID uuid.UUID) ([]byte, string, error) {
	out, err := c.invoke(ctx, SessionInfoMethod, playerID)
	if err != nil {
		return nil, "", err
	}
	m := out.GetFields()
	key, err := base64.StdEncoding.DecodeString(m[serverPubKeyField].GetStringValue())
	if err != nil {
		return nil, "", fmt.Errorf("decoding public key: %w", err)
	}
	return key, m[serverAddrField].GetStringValue(), nil
}

// State returns the latest frame of the player's session.
func (c *Client) State(ctx context.Context, playerID uuid.UUID) (codec.Frame, error) {
	out, err := c.invoke(ctx, StateMethod, playerID)
	if err != nil {
		return codec.Frame{}, err
	}
	return codec.FrameFromStruct(out), nil
}
