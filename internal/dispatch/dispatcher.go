// Package dispatch resolves tool-call and resource-read requests
// against the registries, attaches request context, and normalizes
// every failure into the standard error envelope.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/apperr"
	"xantus-mcp-go/internal/resources"
	"xantus-mcp-go/internal/tools"
)

// MetricsRecorder receives per-call telemetry. Satisfied by
// *telemetry.Metrics; nil disables recording.
type MetricsRecorder interface {
	RecordToolExecution(toolName, status string, duration time.Duration)
	RecordResourceRead(resourceURI, status string, duration time.Duration)
}

// ReadResult wraps a resource handler's content sequence for the wire.
type ReadResult struct {
	Contents []resources.Content `json:"contents"`
}

// Dispatcher owns no state across calls except the two
// populate-once registries.
type Dispatcher struct {
	tools     *tools.Registry
	resources *resources.Registry
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// New creates a dispatcher over the given registries. metrics may be
// nil.
func New(toolReg *tools.Registry, resourceReg *resources.Registry, metrics MetricsRecorder, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		tools:     toolReg,
		resources: resourceReg,
		metrics:   metrics,
		logger:    logger.With().Str("component", "dispatcher").Logger(),
	}
}

// ListTools returns the definitions of every registered tool,
// populating the registry on first access.
func (d *Dispatcher) ListTools() []tools.Definition {
	defs := d.tools.Definitions()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	d.logger.Debug().Int("count", len(defs)).Strs("tools", names).Msg("Listing tools")
	return defs
}

// ListResources returns the definitions of every registered resource.
func (d *Dispatcher) ListResources() []resources.Definition {
	defs := d.resources.Definitions()
	uris := make([]string, len(defs))
	for i, def := range defs {
		uris[i] = def.URI
	}
	d.logger.Debug().Int("count", len(defs)).Strs("resources", uris).Msg("Listing resources")
	return defs
}

// CallTool resolves and invokes the named tool. The handler's response
// is returned verbatim; lookup, validation and infrastructure failures
// come back as the standard error envelope instead.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) (resp *tools.Response, errResp *apperr.ErrorResponse) {
	requestID := apperr.NewRequestID()
	start := time.Now()

	defer func() {
		if recovered := recover(); recovered != nil {
			resp = nil
			errResp = apperr.NewErrorResponse(apperr.FromPanic(recovered), requestID, d.logger)
		}
		d.recordTool(name, start, resp, errResp)
	}()

	d.logger.Info().
		Str("request_id", requestID).
		Str("tool", name).
		Msg("Tool call received")

	tool, found := d.tools.Get(name)
	if !found {
		err := apperr.NewToolExecutionError(fmt.Sprintf("Tool not found: %s", name), name)
		return nil, apperr.NewErrorResponse(err, requestID, d.logger)
	}

	if valid, missing := tools.ValidateArguments(tool.Definition(), args); !valid {
		err := apperr.NewValidationError("Invalid tool arguments", map[string]any{
			"tool_name": name,
			"errors":    missing,
		})
		return nil, apperr.NewErrorResponse(err, requestID, d.logger)
	}

	result, err := tool.Call(ctx, tools.NewToolContext(requestID), args)
	if err != nil {
		return nil, apperr.NewErrorResponse(apperr.Wrap(err), requestID, d.logger)
	}
	return result, nil
}

// ReadResource resolves and invokes the resource at the given URI,
// wrapping the handler's content sequence.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (result *ReadResult, errResp *apperr.ErrorResponse) {
	requestID := apperr.NewRequestID()
	start := time.Now()

	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			errResp = apperr.NewErrorResponse(apperr.FromPanic(recovered), requestID, d.logger)
		}
		d.recordResource(uri, start, errResp)
	}()

	d.logger.Info().
		Str("request_id", requestID).
		Str("uri", uri).
		Msg("Resource read received")

	resource, found := d.resources.Get(uri)
	if !found {
		err := apperr.NewResourceAccessError(fmt.Sprintf("Resource not found: %s", uri), uri)
		return nil, apperr.NewErrorResponse(err, requestID, d.logger)
	}

	rc := resources.NewResourceContext(requestID, uri, resources.AccessRead)
	contents, err := resource.Read(ctx, rc)
	if err != nil {
		return nil, apperr.NewErrorResponse(apperr.Wrap(err), requestID, d.logger)
	}
	return &ReadResult{Contents: contents}, nil
}

func (d *Dispatcher) recordTool(name string, start time.Time, resp *tools.Response, errResp *apperr.ErrorResponse) {
	if d.metrics == nil {
		return
	}
	status := "success"
	if errResp != nil || (resp != nil && resp.IsError) {
		status = "error"
	}
	d.metrics.RecordToolExecution(name, status, time.Since(start))
}

func (d *Dispatcher) recordResource(uri string, start time.Time, errResp *apperr.ErrorResponse) {
	if d.metrics == nil {
		return
	}
	status := "success"
	if errResp != nil {
		status = "error"
	}
	d.metrics.RecordResourceRead(uri, status, time.Since(start))
}
