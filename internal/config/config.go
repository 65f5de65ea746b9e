// Package config provides application configuration management with
// multi-source priority: environment variables override the optional
// config.yaml file, which overrides built-in defaults.
//
// Environment variables use the XANTUS_ prefix with __ as the nesting
// delimiter, e.g. XANTUS_LLM__API_KEY overrides llm.api_key.
//
// Credential-bearing fields (API keys) are excluded from JSON
// serialization so configuration snapshots are safe to expose.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LLMConfig configures the language model collaborator.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" json:"provider"`
	Model       string  `mapstructure:"model" json:"model"`
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	APIKey      string  `mapstructure:"api_key" json:"-"`
	APIBase     string  `mapstructure:"api_base" json:"api_base,omitempty"`
}

// EmbeddingConfig configures the embedding collaborator.
type EmbeddingConfig struct {
	Provider       string `mapstructure:"provider" json:"provider"`
	Model          string `mapstructure:"model" json:"model"`
	EmbedBatchSize int    `mapstructure:"embed_batch_size" json:"embed_batch_size"`
	APIKey         string `mapstructure:"api_key" json:"-"`
}

// VectorStoreConfig configures the vector store collaborator.
type VectorStoreConfig struct {
	Provider       string `mapstructure:"provider" json:"provider"`
	PersistPath    string `mapstructure:"persist_path" json:"persist_path"`
	CollectionName string `mapstructure:"collection_name" json:"collection_name"`
}

// RAGConfig configures retrieval behavior.
type RAGConfig struct {
	SimilarityTopK  int  `mapstructure:"similarity_top_k" json:"similarity_top_k"`
	ChunkSize       int  `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap    int  `mapstructure:"chunk_overlap" json:"chunk_overlap"`
	EnableReranking bool `mapstructure:"enable_reranking" json:"enable_reranking"`
}

// ServerConfig configures process-level serving concerns: the optional
// health/metrics HTTP sidecar and its CORS policy.
type ServerConfig struct {
	Host             string   `mapstructure:"host" json:"host"`
	Port             int      `mapstructure:"port" json:"port"`
	CORSEnabled      bool     `mapstructure:"cors_enabled" json:"cors_enabled"`
	CORSOrigins      []string `mapstructure:"cors_origins" json:"cors_origins"`
	TelemetryEnabled bool     `mapstructure:"telemetry_enabled" json:"telemetry_enabled"`
}

// ToolsConfig configures the tool handlers.
type ToolsConfig struct {
	FilesystemRoot string `mapstructure:"filesystem_root" json:"filesystem_root"`
	LogBufferSize  int    `mapstructure:"log_buffer_size" json:"log_buffer_size"`
	RecentLogCount int    `mapstructure:"recent_log_count" json:"recent_log_count"`
}

// Config stores the full runtime configuration.
type Config struct {
	LLM         LLMConfig         `mapstructure:"llm" json:"llm"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding" json:"embedding"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store" json:"vector_store"`
	RAG         RAGConfig         `mapstructure:"rag" json:"rag"`
	Server      ServerConfig      `mapstructure:"server" json:"server"`
	Tools       ToolsConfig       `mapstructure:"tools" json:"tools"`
}

// Addr returns the sidecar listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.model", "llama3.2")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 2048)

	v.SetDefault("embedding.provider", "huggingface")
	v.SetDefault("embedding.model", "BAAI/bge-small-en-v1.5")
	v.SetDefault("embedding.embed_batch_size", 10)

	v.SetDefault("vector_store.provider", "chroma")
	v.SetDefault("vector_store.persist_path", "./data/vector_store")
	v.SetDefault("vector_store.collection_name", "xantus_documents")

	v.SetDefault("rag.similarity_top_k", 5)
	v.SetDefault("rag.chunk_size", 1024)
	v.SetDefault("rag.chunk_overlap", 200)
	v.SetDefault("rag.enable_reranking", false)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_enabled", true)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.telemetry_enabled", false)

	v.SetDefault("tools.filesystem_root", "./data")
	v.SetDefault("tools.log_buffer_size", 1000)
	v.SetDefault("tools.recent_log_count", 50)
}

// Load reads the configuration from defaults, an optional config.yaml
// in the working directory, and XANTUS_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("XANTUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate performs range checks on the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Tools.LogBufferSize <= 0 {
		return fmt.Errorf("invalid log buffer size: %d", c.Tools.LogBufferSize)
	}
	if c.Tools.RecentLogCount <= 0 {
		return fmt.Errorf("invalid recent log count: %d", c.Tools.RecentLogCount)
	}
	if c.Tools.FilesystemRoot == "" {
		return fmt.Errorf("filesystem root must not be empty")
	}
	return nil
}
