package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			APIKey:   "super-secret",
		},
		Tools: config.ToolsConfig{
			FilesystemRoot: "./data",
			LogBufferSize:  1000,
			RecentLogCount: 50,
		},
	}
}

func testRegistry(cfg *config.Config, buffer *LogBuffer) *Registry {
	return NewRegistry(zerolog.Nop(), func() []Resource {
		return []Resource{
			NewConfigResource(cfg, zerolog.Nop()),
			NewDocsResource(zerolog.Nop()),
			NewLogsResource(buffer, 50, zerolog.Nop()),
		}
	})
}

func TestRegistry_PopulateOnceAndOrder(t *testing.T) {
	registry := testRegistry(testConfig(), NewLogBuffer(10))

	first := registry.Definitions()
	second := registry.Definitions()

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("Expected 3 resources on both listings, got %d and %d", len(first), len(second))
	}

	expected := []string{ConfigURI, DocsURI, LogsURI}
	for i, uri := range expected {
		if first[i].URI != uri {
			t.Errorf("Expected %s at position %d, got %s", uri, i, first[i].URI)
		}
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := testRegistry(testConfig(), NewLogBuffer(10))

	if _, found := registry.Get("resource://nope"); found {
		t.Error("Expected absence for unknown resource")
	}
	if _, found := registry.Get(DocsURI); !found {
		t.Error("Expected docs resource to resolve")
	}
}

func TestConfigResource_RedactsCredentials(t *testing.T) {
	resource := NewConfigResource(testConfig(), zerolog.Nop())

	contents, err := resource.Read(context.Background(), NewResourceContext("req_test", ConfigURI, AccessRead))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("Expected one content item, got %d", len(contents))
	}

	if contents[0].MIMEType != "application/json" {
		t.Errorf("Expected application/json, got %s", contents[0].MIMEType)
	}
	if strings.Contains(contents[0].Text, "super-secret") {
		t.Error("Expected credentials to be omitted from the snapshot")
	}

	var snapshot map[string]any
	if err := json.Unmarshal([]byte(contents[0].Text), &snapshot); err != nil {
		t.Fatalf("Expected valid JSON snapshot: %v", err)
	}
	llm, ok := snapshot["llm"].(map[string]any)
	if !ok {
		t.Fatal("Expected llm section in snapshot")
	}
	if llm["model"] != "llama3.2" {
		t.Errorf("Expected model in snapshot, got %v", llm["model"])
	}
	if _, present := llm["api_key"]; present {
		t.Error("Expected api_key to be absent from snapshot")
	}
}

func TestDocsResource(t *testing.T) {
	resource := NewDocsResource(zerolog.Nop())

	contents, err := resource.Read(context.Background(), NewResourceContext("req_test", DocsURI, AccessRead))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("Expected one content item, got %d", len(contents))
	}
	if contents[0].MIMEType != "text/markdown" {
		t.Errorf("Expected text/markdown, got %s", contents[0].MIMEType)
	}
	for _, expected := range []string{"calculator", "filesystem", "text_process", "weather", "resource://logs"} {
		if !strings.Contains(contents[0].Text, expected) {
			t.Errorf("Expected guide to mention %s", expected)
		}
	}
}

func TestLogsResource(t *testing.T) {
	buffer := NewLogBuffer(1000)
	buffer.Seed()
	resource := NewLogsResource(buffer, 3, zerolog.Nop())

	contents, err := resource.Read(context.Background(), NewResourceContext("req_test", LogsURI, AccessRead))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var payload struct {
		Count   int        `json:"count"`
		Entries []LogEntry `json:"entries"`
	}
	if err := json.Unmarshal([]byte(contents[0].Text), &payload); err != nil {
		t.Fatalf("Expected valid JSON payload: %v", err)
	}
	if payload.Count != 3 {
		t.Errorf("Expected 3 entries, got %d", payload.Count)
	}
	if len(payload.Entries) != payload.Count {
		t.Errorf("Expected count to match entries, got %d vs %d", payload.Count, len(payload.Entries))
	}
}

func TestLogsResource_DefaultRecent(t *testing.T) {
	resource := NewLogsResource(NewLogBuffer(1000), 0, zerolog.Nop())
	if resource.recent != 50 {
		t.Errorf("Expected default of 50 recent entries, got %d", resource.recent)
	}
}

func TestNewResourceContext(t *testing.T) {
	rc := NewResourceContext("req_abc", LogsURI, AccessRead)

	if rc.RequestID != "req_abc" {
		t.Errorf("Expected request id preserved, got %s", rc.RequestID)
	}
	if rc.AccessType != AccessRead {
		t.Errorf("Expected read access, got %s", rc.AccessType)
	}
	if rc.Path != LogsURI {
		t.Errorf("Expected path %s, got %s", LogsURI, rc.Path)
	}
	if rc.Timestamp == "" {
		t.Error("Expected a timestamp")
	}
}
