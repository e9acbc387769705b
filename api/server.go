package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/codec"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/beka-birhanu/vinom-maze3d/service/i"
	"github.com/google/uuid"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Struct field names.
const (
	playerIDField     = "player_id"
	sessionIDField    = "session_id"
	serverPubKeyField = "server_pub_key" // Base64 of the socket public key.
	serverAddrField   = "server_addr"
)

// Server exposes a GameSessionManager over gRPC.
type Server struct {
	gameSessionManager i.GameSessionManager
}

// RegisterNewGameSessionManager registers a Server backed by gsm on gsr.
func RegisterNewGameSessionManager(gsr grpc.ServiceRegistrar, gsm i.GameSessionManager) error {
	if gsm == nil {
		return errors.New("nil game session manager")
	}
	server := &Server{
		gameSessionManager: gsm,
	}

	RegisterSessionServer(gsr, server)
	return nil
}

// NewSession starts a maze run for the requested player.
func (s *Server) NewSession(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	playerID, err := parsePlayerID(r)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.gameSessionManager.NewSession(playerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{sessionIDField: sessionID.String()})
}

// SessionInfo returns the socket public key and address.
func (s *Server) SessionInfo(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	playerID, err := parsePlayerID(r)
	if err != nil {
		return nil, err
	}

	pubKey, serverAddr, err := s.gameSessionManager.SessionInfo(playerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		serverPubKeyField: base64.StdEncoding.EncodeToString(pubKey),
		serverAddrField:   serverAddr,
	})
}

// State returns the latest frame of the player's session.
func (s *Server) State(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	playerID, err := parsePlayerID(r)
	if err != nil {
		return nil, err
	}

	frame, err := s.gameSessionManager.State(playerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(codec.FrameFields(frame))
}

func parsePlayerID(r *structpb.Struct) (uuid.UUID, error) {
	raw := r.GetFields()[playerIDField].GetStringValue()
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "parsing %s %q: %s", playerIDField, raw, err)
	}
	return id, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrNoSession):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrSessionExists):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, fmt.Sprintf("session manager: %s", err))
	}
}
