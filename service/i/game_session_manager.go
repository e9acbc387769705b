package i

import (
	"github.com/beka-birhanu/vinom-maze3d/codec"
	"github.com/google/uuid"
)

// GameSessionManager manages game sessions and provides session-related information.
type GameSessionManager interface {
	// NewSession starts a maze run for the player and returns its session ID.
	NewSession(playerID uuid.UUID) (uuid.UUID, error)

	// StopAll ends every running session.
	StopAll()

	// SessionInfo returns the public key, socket address.
	SessionInfo(playerID uuid.UUID) ([]byte, string, error)

	// State returns the latest frame of the player's session.
	State(playerID uuid.UUID) (codec.Frame, error)
}
