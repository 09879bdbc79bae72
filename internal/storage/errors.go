package storage

import "errors"

var (
	// ErrSessionNotFound is returned when a session id is unknown or has expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidCapacity is returned when a store or cache is sized below one entry.
	ErrInvalidCapacity = errors.New("capacity must be positive")
)
