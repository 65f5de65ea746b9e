package resources

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/config"
)

// ConfigURI is the URI of the configuration snapshot resource.
const ConfigURI = "resource://config"

// ConfigResource exposes a JSON snapshot of the active runtime
// configuration. Credential-bearing fields are omitted by the config
// package's JSON serialization.
type ConfigResource struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewConfigResource creates the configuration snapshot resource.
func NewConfigResource(cfg *config.Config, logger zerolog.Logger) *ConfigResource {
	return &ConfigResource{
		cfg:    cfg,
		logger: logger.With().Str("component", "config_resource").Logger(),
	}
}

// URI returns the resource URI.
func (r *ConfigResource) URI() string {
	return ConfigURI
}

// Definition returns the resource definition.
func (r *ConfigResource) Definition() Definition {
	return Definition{
		URI:         ConfigURI,
		Name:        "Runtime Configuration",
		Description: "Snapshot of the active runtime configuration with credentials omitted",
		MIMEType:    "application/json",
	}
}

// Read serializes the current configuration.
func (r *ConfigResource) Read(ctx context.Context, rc ResourceContext) ([]Content, error) {
	r.logger.Debug().
		Str("request_id", rc.RequestID).
		Str("access_type", rc.AccessType).
		Msg("Reading configuration snapshot")

	data, err := json.MarshalIndent(r.cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return []Content{{
		URI:      ConfigURI,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
