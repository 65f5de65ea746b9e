package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callFilesystem(t *testing.T, root string, args map[string]any) *Response {
	t.Helper()
	tool := NewFilesystemTool(root, zerolog.Nop())
	resp, err := tool.Call(context.Background(), NewToolContext("req_test"), args)
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Content)
	return resp
}

func decodeResult(t *testing.T, resp *Response) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Content[0].Text), &result))
	return result
}

func TestFilesystem_WriteThenRead(t *testing.T) {
	root := t.TempDir()

	writeResp := callFilesystem(t, root, map[string]any{
		"operation": "write",
		"path":      "notes/hello.txt",
		"content":   "hello world",
	})
	require.False(t, writeResp.IsError, writeResp.Content[0].Text)

	written := decodeResult(t, writeResp)
	assert.Equal(t, true, written["success"])
	assert.Equal(t, float64(11), written["bytes_written"])

	readResp := callFilesystem(t, root, map[string]any{
		"operation": "read",
		"path":      "notes/hello.txt",
	})
	require.False(t, readResp.IsError)

	read := decodeResult(t, readResp)
	assert.Equal(t, "hello world", read["content"])
	assert.Equal(t, float64(11), read["size"])
}

func TestFilesystem_Base64RoundTrip(t *testing.T) {
	root := t.TempDir()
	payload := base64.StdEncoding.EncodeToString([]byte{0x00, 0x01, 0xFF})

	writeResp := callFilesystem(t, root, map[string]any{
		"operation": "write",
		"path":      "blob.bin",
		"content":   payload,
		"encoding":  "base64",
	})
	require.False(t, writeResp.IsError)

	readResp := callFilesystem(t, root, map[string]any{
		"operation": "read",
		"path":      "blob.bin",
		"encoding":  "base64",
	})
	require.False(t, readResp.IsError)

	read := decodeResult(t, readResp)
	assert.Equal(t, payload, read["content"])
}

func TestFilesystem_List(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("abc"), 0o644))

	resp := callFilesystem(t, root, map[string]any{
		"operation": "list",
		"path":      ".",
	})
	require.False(t, resp.IsError, resp.Content[0].Text)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Content[0].Text), &entries))
	require.Len(t, entries, 2)

	types := map[string]string{}
	for _, entry := range entries {
		types[entry["name"].(string)] = entry["type"].(string)
	}
	assert.Equal(t, "file", types["a.txt"])
	assert.Equal(t, "directory", types["sub"])
}

func TestFilesystem_Exists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "present.txt"), []byte("x"), 0o644))

	resp := callFilesystem(t, root, map[string]any{
		"operation": "exists",
		"path":      "present.txt",
	})
	result := decodeResult(t, resp)
	assert.Equal(t, true, result["exists"])
	assert.Equal(t, "file", result["type"])

	resp = callFilesystem(t, root, map[string]any{
		"operation": "exists",
		"path":      "absent.txt",
	})
	result = decodeResult(t, resp)
	assert.Equal(t, false, result["exists"])
	assert.NotContains(t, result, "type")
}

func TestFilesystem_PathTraversalDenied(t *testing.T) {
	root := t.TempDir()

	tests := []string{
		"../outside.txt",
		"sub/../../outside.txt",
		"/etc/passwd",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			resp := callFilesystem(t, root, map[string]any{
				"operation": "read",
				"path":      path,
			})
			assert.True(t, resp.IsError)
			assert.Contains(t, resp.Content[0].Text, "Access denied")
		})
	}
}

func TestFilesystem_WriteRequiresContent(t *testing.T) {
	resp := callFilesystem(t, t.TempDir(), map[string]any{
		"operation": "write",
		"path":      "x.txt",
	})
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.Content[0].Text, "Content is required")
}

func TestFilesystem_UnsupportedOperation(t *testing.T) {
	resp := callFilesystem(t, t.TempDir(), map[string]any{
		"operation": "delete",
		"path":      "x.txt",
	})
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.Content[0].Text, "Unsupported operation: delete")
}

func TestFilesystem_ReadMissingFile(t *testing.T) {
	resp := callFilesystem(t, t.TempDir(), map[string]any{
		"operation": "read",
		"path":      "nope.txt",
	})
	assert.True(t, resp.IsError)
}
