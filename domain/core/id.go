package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque identifier
type ID string

// NewID returns a time-ordered UUIDv7, or a v4 when v7 generation fails
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

func (id ID) String() string {
	return string(id)
}

type (
	// BatchID identifies one pipeline run over an uploaded grid.
	BatchID ID
	// RequestID identifies one HTTP request.
	RequestID ID
)

func NewBatchID() BatchID     { return BatchID(NewID()) }
func NewRequestID() RequestID { return RequestID(NewID()) }

func (id BatchID) String() string   { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }

// ParseRequestID accepts a caller supplied request ID, e.g. from X-Request-ID.
func ParseRequestID(s string) (RequestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	if len(s) > 128 {
		return "", fmt.Errorf("request ID too long: %d chars", len(s))
	}
	return RequestID(s), nil
}
