package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Validation errors
	ErrInvalidSteamID = errors.New("steam_id is required")
	ErrInvalidCoins   = errors.New("coins must be an integer")
)

// StorageError wraps any fault raised by the backing store.
// The API reports it as a generic internal error.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err with the name of the failed operation
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
