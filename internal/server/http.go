package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/config"
	"xantus-mcp-go/internal/telemetry"
)

// NewHealthHandler builds the health/metrics HTTP sidecar. It serves
// process-supervision endpoints only; the MCP exchange itself stays on
// stdio.
func NewHealthHandler(cfg *config.Config, srvCfg Config, metrics *telemetry.Metrics, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.HTTPMetricsMiddleware(metrics))

	if cfg.Server.CORSEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"status": "ok"})
	})

	r.Get("/info", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{
			"name":             srvCfg.Name,
			"version":          srvCfg.Version,
			"protocol_version": srvCfg.ProtocolVersion,
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Msg("Health sidecar handler built")

	return r
}
