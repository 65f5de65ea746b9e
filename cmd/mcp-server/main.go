package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/config"
	"xantus-mcp-go/internal/dispatch"
	"xantus-mcp-go/internal/resources"
	"xantus-mcp-go/internal/server"
	"xantus-mcp-go/internal/telemetry"
	"xantus-mcp-go/internal/tools"
)

func main() {
	// stdout carries the JSON-RPC channel, so all logging goes to
	// stderr.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// The log buffer captures the live stream and is pre-seeded so the
	// logs resource has content immediately.
	logBuffer := resources.NewLogBuffer(cfg.Tools.LogBufferSize)
	logBuffer.Seed()
	logger = logger.Hook(logBuffer)

	logger.Info().Msg("Starting MCP server")

	toolRegistry := tools.NewRegistry(logger, func() []tools.Tool {
		return []tools.Tool{
			tools.NewCalculatorTool(logger),
			tools.NewFilesystemTool(cfg.Tools.FilesystemRoot, logger),
			tools.NewTextProcessTool(logger),
			tools.NewWeatherTool(logger),
		}
	})

	resourceRegistry := resources.NewRegistry(logger, func() []resources.Resource {
		return []resources.Resource{
			resources.NewConfigResource(cfg, logger),
			resources.NewDocsResource(logger),
			resources.NewLogsResource(logBuffer, cfg.Tools.RecentLogCount, logger),
		}
	})

	metrics := telemetry.NewMetrics()
	dispatcher := dispatch.New(toolRegistry, resourceRegistry, metrics, logger)

	srvCfg := server.DefaultConfig()
	transport := server.NewTransport(os.Stdin, os.Stdout, logger)
	srv := server.New(srvCfg, transport, dispatcher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Server.TelemetryEnabled {
		collector := telemetry.NewSystemMetricsCollector(metrics, logger, 15*time.Second)
		go collector.Start(ctx)
		defer collector.Stop()

		sidecar := &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: server.NewHealthHandler(cfg, srvCfg, metrics, logger),
		}
		go func() {
			logger.Info().Str("addr", sidecar.Addr).Msg("Starting health sidecar")
			if err := sidecar.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("Health sidecar failed")
			}
		}()
		defer sidecar.Close()
	}

	err, panicked := server.RunGuarded(func() error {
		return srv.Run(ctx)
	}, logger)
	if panicked {
		os.Exit(1)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}
