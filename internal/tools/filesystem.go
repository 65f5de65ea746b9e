package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/validate"
)

// FilesystemTool performs sandboxed file operations. Every path is
// sanitized and resolved against a fixed root; paths that escape the
// root are rejected before touching storage.
type FilesystemTool struct {
	root   string
	logger zerolog.Logger
}

// NewFilesystemTool creates a filesystem tool rooted at the given
// directory.
func NewFilesystemTool(root string, logger zerolog.Logger) *FilesystemTool {
	return &FilesystemTool{
		root:   root,
		logger: logger.With().Str("component", "filesystem_tool").Logger(),
	}
}

// Name returns the name of the tool.
func (t *FilesystemTool) Name() string {
	return "filesystem"
}

// Definition returns the tool definition.
func (t *FilesystemTool) Definition() Definition {
	return Definition{
		Name:        t.Name(),
		Description: "Read, write and inspect files inside the project sandbox",
		InputSchema: validate.Schema{
			Type: "object",
			Properties: map[string]validate.Property{
				"operation": {
					Type:        "string",
					Description: "File operation to perform",
					Enum:        []string{"read", "write", "list", "exists"},
				},
				"path": {
					Type:        "string",
					Description: "Path relative to the sandbox root",
				},
				"content": {
					Type:        "string",
					Description: "Content to write (write operation only)",
				},
				"encoding": {
					Type:        "string",
					Description: "Content encoding",
					Enum:        []string{"utf8", "base64"},
					Default:     "utf8",
				},
			},
			Required: []string{"operation", "path"},
		},
	}
}

// Call performs the requested file operation inside the sandbox.
func (t *FilesystemTool) Call(ctx context.Context, tc ToolContext, args map[string]any) (*Response, error) {
	operation, _ := args["operation"].(string)
	rawPath, _ := args["path"].(string)
	encoding, _ := args["encoding"].(string)
	if encoding == "" {
		encoding = "utf8"
	}

	logger := t.logger.With().
		Str("request_id", tc.RequestID).
		Str("operation", operation).
		Str("path", rawPath).
		Logger()

	resolved, err := t.resolve(rawPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Path rejected")
		return ErrorResponse(fmt.Sprintf("Access denied: %s", rawPath)), nil
	}

	var result any
	switch operation {
	case "read":
		result, err = t.read(resolved, encoding)
	case "write":
		content, ok := args["content"].(string)
		if !ok {
			logger.Warn().Msg("Write without content")
			return ErrorResponse("Content is required for write operations"), nil
		}
		result, err = t.write(resolved, content, encoding)
	case "list":
		result, err = t.list(resolved)
	case "exists":
		result, err = t.exists(resolved)
	default:
		logger.Warn().Msg("Unsupported operation")
		return ErrorResponse(fmt.Sprintf("Unsupported operation: %s", operation)), nil
	}

	if err != nil {
		logger.Warn().Err(err).Msg("File operation failed")
		return ErrorResponse(err.Error()), nil
	}

	logger.Info().Msg("File operation completed")

	encoded, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return TextResponse(string(encoded)), nil
}

// resolve sanitizes the raw path and anchors it under the sandbox root,
// rejecting anything that would escape it.
func (t *FilesystemTool) resolve(rawPath string) (string, error) {
	sanitized, err := validate.ValidateFilePath(rawPath)
	if err != nil {
		return "", err
	}

	full := filepath.Join(t.root, filepath.FromSlash(sanitized))
	rel, err := filepath.Rel(t.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &validate.PathError{Code: validate.ErrPathTraversal, Path: rawPath}
	}
	return full, nil
}

func (t *FilesystemTool) read(path, encoding string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)
	if encoding == "base64" {
		content = base64.StdEncoding.EncodeToString(data)
	}
	return map[string]any{
		"content": content,
		"size":    len(data),
	}, nil
}

func (t *FilesystemTool) write(path, content, encoding string) (map[string]any, error) {
	data := []byte(content)
	if encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 content: %w", err)
		}
		data = decoded
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	return map[string]any{
		"success":       true,
		"bytes_written": len(data),
	}, nil
}

// list returns a bare array of directory entries.
func (t *FilesystemTool) list(path string) ([]map[string]any, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	listed := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		entryType := "file"
		var size int64
		if entry.IsDir() {
			entryType = "directory"
		} else if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		listed = append(listed, map[string]any{
			"name": entry.Name(),
			"type": entryType,
			"size": size,
		})
	}
	return listed, nil
}

func (t *FilesystemTool) exists(path string) (map[string]any, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return map[string]any{"exists": false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	entryType := "file"
	if info.IsDir() {
		entryType = "directory"
	}
	return map[string]any{
		"exists": true,
		"type":   entryType,
	}, nil
}
