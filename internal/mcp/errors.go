package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/webhook"
)

// errInvalidArgument marks tool arguments that could not be interpreted.
var errInvalidArgument = errors.New("invalid argument")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var werr *session.WarningsError
	switch {
	case errors.As(err, &werr):
		return &APIError{Code: "UNCONFIRMED_WARNINGS", Message: err.Error(), Details: werr.Warnings, RecoveryHint: "Review the warnings and retry with force=true"}
	case errors.Is(err, zone.ErrZoneNotFound), errors.Is(err, session.ErrZoneNotFound):
		return &APIError{Code: "ZONE_NOT_FOUND", Message: "zone not found", RecoveryHint: "Call list_zones for valid ids"}
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "session not found", RecoveryHint: "Call list_sessions for valid ids"}
	case errors.Is(err, zone.ErrDuplicateName):
		return &APIError{Code: "DUPLICATE_ZONE", Message: "a zone with that name already exists", RecoveryHint: "Reactivate the existing zone instead"}
	case errors.Is(err, codec.ErrFormat):
		return &APIError{Code: "FORMAT_ERROR", Message: err.Error()}
	case errors.Is(err, webhook.ErrNoURL):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Pass webhook_url or configure webhook.url"}
	case errors.Is(err, webhook.ErrTransport):
		return &APIError{Code: "TRANSPORT_ERROR", Message: err.Error()}
	case errors.Is(err, zone.ErrInvalidInput), errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, preference.ErrEmptyDraft), errors.Is(err, errInvalidArgument):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

// toolError converts a service error into the error returned from a tool
// handler. Unmapped errors are store failures and get a generic message.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return &APIError{Code: "INTERNAL_ERROR", Message: "the operation failed; nothing else was changed"}
}
