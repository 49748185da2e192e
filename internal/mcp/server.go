// Package mcp exposes docstring extraction as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/docstrings/internal/discovery"
	"github.com/mvp-joe/docstrings/internal/extractor"
)

// ServerConfig holds what the MCP server needs.
type ServerConfig struct {
	Name        string
	Version     string
	ProjectRoot string
	Extractor   *extractor.Extractor
	Finder      *discovery.Finder
}

// Server manages the MCP server lifecycle.
type Server struct {
	config *ServerConfig
	mcp    *server.MCPServer
}

// NewServer creates an MCP server with the extract_docstrings and
// list_sources tools registered.
func NewServer(config *ServerConfig) (*Server, error) {
	if config == nil || config.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if config.Finder == nil {
		return nil, fmt.Errorf("finder is required")
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	AddExtractTool(mcpServer, config.Extractor, config.ProjectRoot)
	AddListTool(mcpServer, config.Finder)

	return &Server{config: config, mcp: mcpServer}, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve serves on stdio and blocks until a shutdown signal, an error or ctx
// cancellation.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting MCP server on stdio", "root", s.config.ProjectRoot)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		slog.InfoContext(ctx, "received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
