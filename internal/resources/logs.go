package resources

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// LogsURI is the URI of the recent-logs resource.
const LogsURI = "resource://logs"

// LogsResource exposes the most recent entries from an injected log
// ring buffer.
type LogsResource struct {
	buffer *LogBuffer
	recent int
	logger zerolog.Logger
}

// NewLogsResource creates the logs resource. recent bounds how many
// entries a read returns.
func NewLogsResource(buffer *LogBuffer, recent int, logger zerolog.Logger) *LogsResource {
	if recent <= 0 {
		recent = 50
	}
	return &LogsResource{
		buffer: buffer,
		recent: recent,
		logger: logger.With().Str("component", "logs_resource").Logger(),
	}
}

// URI returns the resource URI.
func (r *LogsResource) URI() string {
	return LogsURI
}

// Definition returns the resource definition.
func (r *LogsResource) Definition() Definition {
	return Definition{
		URI:         LogsURI,
		Name:        "Recent Logs",
		Description: "Most recent structured log entries from the in-memory buffer",
		MIMEType:    "application/json",
	}
}

// Read serializes the most recent buffered entries.
func (r *LogsResource) Read(ctx context.Context, rc ResourceContext) ([]Content, error) {
	entries := r.buffer.Recent(r.recent)

	r.logger.Debug().
		Str("request_id", rc.RequestID).
		Int("count", len(entries)).
		Msg("Reading recent logs")

	data, err := json.MarshalIndent(map[string]any{
		"count":   len(entries),
		"entries": entries,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []Content{{
		URI:      LogsURI,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
