package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docqa/internal/documents"
	"github.com/ziadkadry99/docqa/internal/index"
	"github.com/ziadkadry99/docqa/internal/qa"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Answerer answers questions and exposes the passages behind them.
// *qa.Composer satisfies it.
type Answerer interface {
	Answer(ctx context.Context, req qa.Request) (*qa.Answer, error)
	Search(ctx context.Context, req qa.Request) ([]index.Passage, error)
}

// Catalog lists uploaded documents. *ingest.Service satisfies it.
type Catalog interface {
	List(ctx context.Context, collection string) ([]documents.Record, error)
}

// Server wraps an MCP server that exposes document Q&A tools.
type Server struct {
	answerer Answerer
	catalog  Catalog
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(answerer Answerer, catalog Catalog) *Server {
	s := &Server{
		answerer: answerer,
		catalog:  catalog,
	}

	s.mcp = server.NewMCPServer(
		"docqa",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askDocumentsTool, s.handleAskDocuments)
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
