package resources

import (
	"context"
	"time"
)

// Access types carried by a ResourceContext.
const (
	AccessRead  = "read"
	AccessWrite = "write"
	AccessList  = "list"
)

// Resource is a named, URI-addressed, read-only data provider.
type Resource interface {
	// URI returns the unique identifier of the resource.
	URI() string

	// Definition returns the handler-free description of the resource.
	Definition() Definition

	// Read produces the resource contents for a single request.
	Read(ctx context.Context, rc ResourceContext) ([]Content, error)
}

// Definition describes a resource as exchanged with the caller.
type Definition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// ResourceContext carries per-invocation request metadata. Created
// immediately before dispatch, discarded after the call returns.
type ResourceContext struct {
	RequestID  string `json:"request_id"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	AccessType string `json:"access_type"`
}

// NewResourceContext creates a context for a single read.
func NewResourceContext(requestID, path, accessType string) ResourceContext {
	return ResourceContext{
		RequestID:  requestID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       path,
		AccessType: accessType,
	}
}

// Content is a single unit of resource payload.
type Content struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}
