// Package mcp exposes course search as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/version"
	searchuc "github.com/kailas-cloud/coursesearch/internal/usecase/search"
)

// ServerName is the MCP server name.
const ServerName = "coursesearch"

// Server wraps the MCP server with the search service.
type Server struct {
	mcp    *server.MCPServer
	search *searchuc.Service
	logger *zap.Logger
}

// NewServer creates an MCP server with the course search tools registered.
func NewServer(search *searchuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcp:    server.NewMCPServer(ServerName, version.Version, server.WithToolCapabilities(false)),
		search: search,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Serve runs the MCP server on stdio and blocks until stdin closes.
func (s *Server) Serve(_ context.Context) error {
	s.logger.Info("serving MCP on stdio", zap.String("version", version.Version))
	return server.ServeStdio(s.mcp) //nolint:wrapcheck // surfaced by the CLI as-is
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchCoursesTool(), s.handleSearchCourses)
	s.mcp.AddTool(normalizeQueryTool(), s.handleNormalizeQuery)
	s.mcp.AddTool(listVocabularyTool(), s.handleListVocabulary)
}
