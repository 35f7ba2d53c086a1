// Package services holds the Sparky coach pipeline: intent extraction, the
// domain handlers that write diary entries, the orchestrator that ties them
// together, and the history, settings and preferences services behind the
// HTTP API.
//
// This file centralizes service-level error values. Translation into
// user-facing messages or HTTP status codes happens in the handler layer or,
// for chat turns, in the orchestrator.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-sparky-backend/internal/llm"
)

var (
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates the requested row does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("not found")

	// ErrNoActiveService is returned when a chat turn needs a provider but
	// the user has none active.
	ErrNoActiveService = llm.ErrNoActiveService

	// ErrForbidden is returned when a caller acts on another user's data.
	ErrForbidden = errors.New("forbidden")
)

// ParseError reports provider output that is not a usable intent. The
// extractor downgrades it to a conversational reply.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string { return "parse intent: " + e.Reason }

// ValidationError is a missing or invalid field in extracted data. The
// message is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundError signals that a named food or exercise is not stored. For food
// it starts the option generation flow rather than failing the turn.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.Name) }
