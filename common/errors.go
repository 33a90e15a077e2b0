package common

import (
	"errors"
	"fmt"
)

var ErrInvalidRequest = errors.New("message is required")

// UpstreamGenerationError is returned when the completion provider fails.
// Status and Detail are for logs only and must not reach the client.
type UpstreamGenerationError struct {
	Provider string
	Status   int
	Detail   string
	Err      error
}

func (e *UpstreamGenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s generation failed (status %d): %s", e.Provider, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s generation failed: %s", e.Provider, e.Detail)
}

func (e *UpstreamGenerationError) Unwrap() error { return e.Err }

// Store operations reported in PersistenceError.Op.
const (
	OpInsert = "insert"
	OpQuery  = "query"
)

// PersistenceError is returned when the store cannot read or write exchanges.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
