package dispatch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xantus-mcp-go/internal/apperr"
	"xantus-mcp-go/internal/config"
	"xantus-mcp-go/internal/resources"
	"xantus-mcp-go/internal/tools"
	"xantus-mcp-go/internal/validate"
)

// panicTool simulates a handler fault that escapes its own boundary.
type panicTool struct{}

func (t *panicTool) Name() string { return "panics" }

func (t *panicTool) Definition() tools.Definition {
	return tools.Definition{
		Name:        "panics",
		Description: "always panics",
		InputSchema: validate.Schema{Type: "object"},
	}
}

func (t *panicTool) Call(ctx context.Context, tc tools.ToolContext, args map[string]any) (*tools.Response, error) {
	panic("handler exploded")
}

// typedPanicTool panics with an already-typed error carrying no details.
type typedPanicTool struct{}

func (t *typedPanicTool) Name() string { return "typed_panics" }

func (t *typedPanicTool) Definition() tools.Definition {
	return tools.Definition{
		Name:        "typed_panics",
		Description: "always panics with a typed error",
		InputSchema: validate.Schema{Type: "object"},
	}
}

func (t *typedPanicTool) Call(ctx context.Context, tc tools.ToolContext, args map[string]any) (*tools.Response, error) {
	panic(apperr.NewValidationError("rejected mid-flight", nil))
}

type recordedCall struct {
	name   string
	status string
}

type fakeRecorder struct {
	toolCalls     []recordedCall
	resourceReads []recordedCall
}

func (r *fakeRecorder) RecordToolExecution(name, status string, d time.Duration) {
	r.toolCalls = append(r.toolCalls, recordedCall{name, status})
}

func (r *fakeRecorder) RecordResourceRead(uri, status string, d time.Duration) {
	r.resourceReads = append(r.resourceReads, recordedCall{uri, status})
}

func testDispatcher(t *testing.T, recorder MetricsRecorder) *Dispatcher {
	t.Helper()

	toolRegistry := tools.NewRegistry(zerolog.Nop(), func() []tools.Tool {
		return []tools.Tool{
			tools.NewCalculatorTool(zerolog.Nop()),
			&panicTool{},
			&typedPanicTool{},
		}
	})

	buffer := resources.NewLogBuffer(100)
	buffer.Seed()
	cfg := &config.Config{Tools: config.ToolsConfig{FilesystemRoot: t.TempDir()}}

	resourceRegistry := resources.NewRegistry(zerolog.Nop(), func() []resources.Resource {
		return []resources.Resource{
			resources.NewConfigResource(cfg, zerolog.Nop()),
			resources.NewDocsResource(zerolog.Nop()),
			resources.NewLogsResource(buffer, 10, zerolog.Nop()),
		}
	})

	return New(toolRegistry, resourceRegistry, recorder, zerolog.Nop())
}

func TestCallTool_Success(t *testing.T) {
	d := testDispatcher(t, nil)

	resp, errResp := d.CallTool(context.Background(), "calculator", map[string]any{
		"expression": "2 + 3 * 4",
	})
	require.Nil(t, errResp)
	require.NotNil(t, resp)
	assert.False(t, resp.IsError)
	assert.Equal(t, "Calculation Result: 2 + 3 * 4 = 14", resp.Content[0].Text)
}

func TestCallTool_NotFound(t *testing.T) {
	d := testDispatcher(t, nil)

	resp, errResp := d.CallTool(context.Background(), "nope", map[string]any{})
	assert.Nil(t, resp)
	require.NotNil(t, errResp)
	assert.Equal(t, apperr.CodeToolExecution, errResp.Error.Code)
	assert.Contains(t, errResp.Error.Message, "Tool not found: nope")
	assert.Equal(t, "nope", errResp.Error.Details["tool_name"])
}

func TestCallTool_MissingRequiredArgument(t *testing.T) {
	d := testDispatcher(t, nil)

	resp, errResp := d.CallTool(context.Background(), "calculator", map[string]any{})
	assert.Nil(t, resp)
	require.NotNil(t, errResp)
	assert.Equal(t, apperr.CodeValidation, errResp.Error.Code)

	errs, ok := errResp.Error.Details["errors"].([]string)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "Missing required parameter: expression", errs[0])
}

func TestCallTool_HandlerLocalFailureIsNotAnEnvelope(t *testing.T) {
	d := testDispatcher(t, nil)

	// A bad expression is the calculator's own failure; it comes back
	// as an is_error response, never as an error envelope.
	resp, errResp := d.CallTool(context.Background(), "calculator", map[string]any{
		"expression": "2 + x",
	})
	require.Nil(t, errResp)
	require.NotNil(t, resp)
	assert.True(t, resp.IsError)
	assert.True(t, strings.HasPrefix(resp.Content[0].Text, "Error:"))
}

func TestCallTool_PanicBecomesUnknownError(t *testing.T) {
	d := testDispatcher(t, nil)

	resp, errResp := d.CallTool(context.Background(), "panics", map[string]any{})
	assert.Nil(t, resp)
	require.NotNil(t, errResp)
	assert.Equal(t, apperr.CodeUnknown, errResp.Error.Code)
	assert.Contains(t, errResp.Error.Message, "handler exploded")
}

func TestCallTool_TypedPanicWithoutDetailsBecomesEnvelope(t *testing.T) {
	d := testDispatcher(t, nil)

	resp, errResp := d.CallTool(context.Background(), "typed_panics", map[string]any{})
	assert.Nil(t, resp)
	require.NotNil(t, errResp)
	assert.Equal(t, apperr.CodeValidation, errResp.Error.Code)
	assert.Contains(t, errResp.Error.Message, "rejected mid-flight")
	assert.Equal(t, true, errResp.Error.Details["panic"])
}

func TestReadResource_Success(t *testing.T) {
	d := testDispatcher(t, nil)

	result, errResp := d.ReadResource(context.Background(), resources.DocsURI)
	require.Nil(t, errResp)
	require.NotNil(t, result)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, resources.DocsURI, result.Contents[0].URI)
	assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
}

func TestReadResource_NotFound(t *testing.T) {
	d := testDispatcher(t, nil)

	result, errResp := d.ReadResource(context.Background(), "resource://nope")
	assert.Nil(t, result)
	require.NotNil(t, errResp)
	assert.Equal(t, apperr.CodeResourceAccess, errResp.Error.Code)
	assert.Equal(t, "resource://nope", errResp.Error.Details["resource_uri"])
}

func TestListOperations(t *testing.T) {
	d := testDispatcher(t, nil)

	toolDefs := d.ListTools()
	require.Len(t, toolDefs, 3)
	assert.Equal(t, "calculator", toolDefs[0].Name)

	resourceDefs := d.ListResources()
	require.Len(t, resourceDefs, 3)
	assert.Equal(t, resources.ConfigURI, resourceDefs[0].URI)
}

func TestTelemetryRecording(t *testing.T) {
	recorder := &fakeRecorder{}
	d := testDispatcher(t, recorder)

	d.CallTool(context.Background(), "calculator", map[string]any{"expression": "1 + 1"})
	d.CallTool(context.Background(), "calculator", map[string]any{"expression": "1 + x"})
	d.CallTool(context.Background(), "nope", map[string]any{})
	d.ReadResource(context.Background(), resources.DocsURI)
	d.ReadResource(context.Background(), "resource://nope")

	require.Len(t, recorder.toolCalls, 3)
	assert.Equal(t, recordedCall{"calculator", "success"}, recorder.toolCalls[0])
	assert.Equal(t, recordedCall{"calculator", "error"}, recorder.toolCalls[1])
	assert.Equal(t, recordedCall{"nope", "error"}, recorder.toolCalls[2])

	require.Len(t, recorder.resourceReads, 2)
	assert.Equal(t, recordedCall{resources.DocsURI, "success"}, recorder.resourceReads[0])
	assert.Equal(t, recordedCall{"resource://nope", "error"}, recorder.resourceReads[1])
}
