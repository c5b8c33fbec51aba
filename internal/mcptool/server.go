// Package mcptool exposes one tenant's documentation operations to AI agents
// over the Model Context Protocol. It is pure protocol translation: every
// tool call goes through the data API client, authenticated with the
// tenant's API key.
package mcptool

import (
	"context"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"docport/internal/apiclient"
)

// TenantClient is the tenant-facing slice of the data API the tools need.
type TenantClient interface {
	Me(ctx context.Context) (*apiclient.Tenant, error)
	ConfigureDomain(ctx context.Context, update apiclient.DomainUpdate) (*apiclient.Tenant, error)
}

// PagesClient is the page-facing slice of the data API the tools need.
type PagesClient interface {
	ListPages(ctx context.Context) ([]apiclient.PageSummary, error)
	GetPage(ctx context.Context, slug string) (*apiclient.Page, error)
	CreatePage(ctx context.Context, slug, title, content string) (*apiclient.Page, error)
	UpdatePage(ctx context.Context, slug, title, content string) (*apiclient.Page, error)
	DeletePage(ctx context.Context, slug string) error
}

// ServerConfig holds the MCP server settings.
type ServerConfig struct {
	Addr    string
	Name    string
	Version string
}

// ServerDeps holds the clients the tools call into.
type ServerDeps struct {
	Tenant TenantClient
	Pages  PagesClient
}

// Server hosts the MCP tools over streamable HTTP.
type Server struct {
	cfg       ServerConfig
	deps      ServerDeps
	logger    *slog.Logger
	mcpServer *mcpserver.MCPServer
	httpSrv   *mcpserver.StreamableHTTPServer
}

// NewServer constructs the MCP server and registers all tools.
func NewServer(cfg ServerConfig, deps ServerDeps, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		mcpServer: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(true),
		),
	}
	s.registerTools()
	return s
}

// MCPServer exposes the underlying server, mostly for tests.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Start serves MCP over streamable HTTP in the background.
func (s *Server) Start() error {
	s.httpSrv = mcpserver.NewStreamableHTTPServer(s.mcpServer)
	go func() {
		if err := s.httpSrv.Start(s.cfg.Addr); err != nil {
			s.logger.Error("mcp server stopped", "error", err)
		}
	}()
	s.logger.Info("mcp server listening", "addr", s.cfg.Addr)
	return nil
}

// Stop shuts the HTTP listener down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
