package resources

import (
	"context"

	"github.com/rs/zerolog"
)

// DocsURI is the URI of the usage guide resource.
const DocsURI = "resource://docs"

const usageGuide = `# Xantus MCP Server

This server exposes tools and resources over the Model Context
Protocol. Requests are newline-delimited JSON-RPC 2.0 messages on
stdin; responses are written to stdout.

## Tools

- **calculator**: evaluate an arithmetic expression.
  Arguments: ` + "`expression`" + ` (required), ` + "`precision`" + ` (default 2).
- **filesystem**: sandboxed file access under the configured root.
  Arguments: ` + "`operation`" + ` (read | write | list | exists),
  ` + "`path`" + `, ` + "`content`" + ` (write only), ` + "`encoding`" + ` (utf8 | base64).
- **text_process**: text analytics.
  Arguments: ` + "`operation`" + ` (count | uppercase | lowercase | reverse |
  wordcount | sentiment), ` + "`text`" + `, ` + "`options`" + `.
- **weather**: mock weather report.
  Arguments: ` + "`location`" + `, ` + "`units`" + ` (metric | imperial | kelvin),
  ` + "`forecast`" + ` (boolean).

## Resources

- ` + "`resource://config`" + `: runtime configuration snapshot (credentials omitted).
- ` + "`resource://docs`" + `: this guide.
- ` + "`resource://logs`" + `: most recent structured log entries.

## Errors

Tool-level failures return a content block prefixed "Error:" with the
is_error flag set. Dispatcher-level failures (unknown tool or resource)
return a structured error envelope with a machine-readable code.
`

// DocsResource serves a fixed Markdown usage guide.
type DocsResource struct {
	logger zerolog.Logger
}

// NewDocsResource creates the documentation resource.
func NewDocsResource(logger zerolog.Logger) *DocsResource {
	return &DocsResource{
		logger: logger.With().Str("component", "docs_resource").Logger(),
	}
}

// URI returns the resource URI.
func (r *DocsResource) URI() string {
	return DocsURI
}

// Definition returns the resource definition.
func (r *DocsResource) Definition() Definition {
	return Definition{
		URI:         DocsURI,
		Name:        "Usage Guide",
		Description: "Markdown documentation for the available tools and resources",
		MIMEType:    "text/markdown",
	}
}

// Read returns the static guide.
func (r *DocsResource) Read(ctx context.Context, rc ResourceContext) ([]Content, error) {
	r.logger.Debug().
		Str("request_id", rc.RequestID).
		Msg("Reading usage guide")

	return []Content{{
		URI:      DocsURI,
		MIMEType: "text/markdown",
		Text:     usageGuide,
	}}, nil
}
