package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientSpace = errors.New("insufficient space")
	ErrReclaimTimeout    = errors.New("timeout while freeing disk space")
)

// InsufficientSpaceError reports a space guarantee that could not be met
// even after reclamation. Both byte counts are carried for diagnostics.
type InsufficientSpaceError struct {
	RequiredBytes  int64
	AvailableBytes int64
}

// Error returns the error message
func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("not enough free space; %d requested, %d available",
		e.RequiredBytes, e.AvailableBytes)
}

// Unwrap makes the error match ErrInsufficientSpace with errors.Is.
func (e *InsufficientSpaceError) Unwrap() error {
	return ErrInsufficientSpace
}
