package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrUnsupportedAudio = errors.New("unsupported audio format")
)
