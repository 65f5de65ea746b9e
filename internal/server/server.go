// Package server runs the MCP dispatcher over a stdio JSON-RPC
// channel and optionally exposes a health/metrics HTTP sidecar.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/dispatch"
	"xantus-mcp-go/internal/jsonrpc"
)

// Config contains the MCP server identity.
type Config struct {
	Name            string
	Version         string
	ProtocolVersion string
}

// DefaultConfig returns the server identity advertised during the
// initialize handshake.
func DefaultConfig() Config {
	return Config{
		Name:            "xantus-mcp",
		Version:         "0.1.0",
		ProtocolVersion: "2024-11-05",
	}
}

// Server routes JSON-RPC requests from the transport to the
// dispatcher.
type Server struct {
	cfg        Config
	transport  *Transport
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
}

// New creates a server over the given transport and dispatcher.
func New(cfg Config, transport *Transport, dispatcher *dispatch.Dispatcher, logger zerolog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		transport:  transport,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "server").Logger(),
	}
}

// Run processes messages until the input stream closes or the context
// is canceled. A closed stream is a clean shutdown, not an error.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().
		Str("name", s.cfg.Name).
		Str("version", s.cfg.Version).
		Msg("MCP server listening on stdio")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.transport.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info().Msg("Input stream closed, shutting down")
				return nil
			}
			return err
		}

		s.handleLine(ctx, line)
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte) {
	parsed, err := jsonrpc.ParseMessage(line)
	if err != nil {
		var rpcErr *jsonrpc.Error
		if !errors.As(err, &rpcErr) {
			rpcErr = jsonrpc.NewError(jsonrpc.ParseError, "Parse error", nil)
		}
		s.write(jsonrpc.NewErrorResponse(nil, rpcErr))
		return
	}

	switch msg := parsed.(type) {
	case *jsonrpc.Request:
		s.write(s.handleRequest(ctx, msg))
	case *jsonrpc.Notification:
		s.handleNotification(msg)
	default:
		// Responses are not expected on a server-side channel.
		s.logger.Warn().Msg("Ignoring unexpected response message")
	}
}

func (s *Server) handleNotification(msg *jsonrpc.Notification) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info().Msg("Client initialized")
	default:
		s.logger.Debug().Str("method", msg.Method).Msg("Ignoring notification")
	}
}

func (s *Server) handleRequest(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	s.logger.Debug().
		Str("method", req.Method).
		Interface("id", req.ID).
		Msg("Handling request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return jsonrpc.NewResponse(req.ID, struct{}{})
	case "tools/list":
		return jsonrpc.NewResponse(req.ID, map[string]any{
			"tools": s.dispatcher.ListTools(),
		})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return jsonrpc.NewResponse(req.ID, map[string]any{
			"resources": s.dispatcher.ListResources(),
		})
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	}

	return jsonrpc.NewErrorResponse(req.ID,
		jsonrpc.NewError(jsonrpc.MethodNotFound, "Method not found: "+req.Method, nil))
}

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      serverInfo     `json:"serverInfo"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) handleInitialize(req *jsonrpc.Request) *jsonrpc.Response {
	return jsonrpc.NewResponse(req.ID, initializeResult{
		ProtocolVersion: s.cfg.ProtocolVersion,
		Capabilities: map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
		ServerInfo: serverInfo{Name: s.cfg.Name, Version: s.cfg.Version},
	})
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.NewErrorResponse(req.ID,
			jsonrpc.NewError(jsonrpc.InvalidParams, "Invalid tool call parameters", nil))
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	result, errResp := s.dispatcher.CallTool(ctx, params.Name, params.Arguments)
	if errResp != nil {
		return jsonrpc.NewErrorResponse(req.ID,
			jsonrpc.NewError(jsonrpc.InternalError, errResp.Error.Message, errResp))
	}
	return jsonrpc.NewResponse(req.ID, result)
}

type resourceReadParams struct {
	URI string `json:"uri"`
}

func (s *Server) handleResourcesRead(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params resourceReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.NewErrorResponse(req.ID,
			jsonrpc.NewError(jsonrpc.InvalidParams, "Invalid resource read parameters", nil))
	}

	result, errResp := s.dispatcher.ReadResource(ctx, params.URI)
	if errResp != nil {
		return jsonrpc.NewErrorResponse(req.ID,
			jsonrpc.NewError(jsonrpc.InternalError, errResp.Error.Message, errResp))
	}
	return jsonrpc.NewResponse(req.ID, result)
}

func (s *Server) write(resp *jsonrpc.Response) {
	if resp == nil {
		return
	}
	if err := s.transport.WriteResponse(resp); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}
