package apperr

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDPrefix is the prefix for generated request IDs
const RequestIDPrefix = "req"

// ErrorBody is the wire form of a failure.
type ErrorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// ErrorResponse is the envelope returned to the caller in place of a
// success payload.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewRequestID returns an opaque request identifier. Uniqueness only
// needs to hold with overwhelming probability within a process
// lifetime, not cryptographically.
func NewRequestID() string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%d_%s", RequestIDPrefix, time.Now().UnixMilli(), suffix)
}

// NewErrorResponse converts a failure into the standard error envelope.
// Known kinds keep their code, message and details; anything else falls
// back to INTERNAL_ERROR with a diagnostic attached. The occurrence is
// always logged tagged with the request id. This is the only path by
// which an error envelope is produced.
func NewErrorResponse(err error, requestID string, logger zerolog.Logger) *ErrorResponse {
	body := ErrorBody{
		Code:      CodeInternal,
		Message:   "An internal error occurred",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if typed, ok := err.(*Error); ok {
		body.Code = typed.Code
		body.Message = typed.Message
		body.Details = typed.Details
	} else if err != nil {
		if msg := err.Error(); msg != "" {
			body.Message = msg
		}
		body.Details = map[string]any{"error": fmt.Sprintf("%+v", err)}
	}

	logger.Error().
		Str("request_id", requestID).
		Str("code", body.Code).
		Err(err).
		Msg("Request failed")

	return &ErrorResponse{Error: body}
}
