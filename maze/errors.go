package maze

import "errors"

// Engine errors.
var (
	ErrInvalidLevelData = errors.New("invalid level data")           // Malformed or non-rectangular grid.
	ErrOutOfBounds      = errors.New("cell index out of bounds")     // A lookup escaped clamping.
	ErrLoadFailure      = errors.New("level load failed")            // The loader reported an error.
	ErrAlreadyStarted   = errors.New("controller already started")   // Start called twice.
	ErrInvalidOrdinal   = errors.New("level ordinal must be >= 1")   // Levels are numbered from one.
	ErrNothingToRetry   = errors.New("no failed load to retry")      // Retry outside a parked load.
	ErrInvalidLayout    = errors.New("cell size must be positive")   // Layout cannot map positions.
	ErrNoLoader         = errors.New("controller requires a loader") // Config without a Loader.
)
