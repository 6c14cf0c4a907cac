// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes stash query tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"stashview/internal/index"
	"stashview/internal/models"
)

// Server wraps the MCP server with stashview tools.
type Server struct {
	mcp *server.MCPServer
	db  *index.DB
}

// New creates a new MCP server with all stashview tools registered.
func New(db *index.DB) *Server {
	s := &Server{db: db}

	s.mcp = server.NewMCPServer(
		"Stashview",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_stashes",
		mcp.WithDescription("Full-text search across stash owners, item ids, and NBT data. "+
			"Read the stashview://query-syntax resource for matching rules."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchStashes)

	s.mcp.AddTool(mcp.NewTool("list_stashes",
		mcp.WithDescription("List indexed stashes with optional filters."),
		mcp.WithString("kind", mcp.Description("Optional kind filter: backpack or container")),
		mcp.WithString("owner", mcp.Description("Optional owner name or UUID substring (backpacks)")),
		mcp.WithString("item", mcp.Description("Optional item id substring")),
	), s.listStashes)

	s.mcp.AddTool(mcp.NewTool("get_stash",
		mcp.WithDescription("Read the full record of one stash by key: "+
			"a backpack UUID or a container <type>_<x>_<y>_<z> key."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Stash key")),
	), s.getStash)

	s.mcp.AddTool(mcp.NewTool("get_query_syntax",
		mcp.WithDescription("Returns the query syntax and matching rules used by the search tools."),
	), s.getQuerySyntax)

	// Resource: query syntax contract.
	s.mcp.AddResource(
		mcp.NewResource("stashview://query-syntax", "Query Syntax",
			mcp.WithResourceDescription("Matching rules and record kinds understood by the search tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readQuerySyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchStashes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listStashes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := optionalString(req, "kind")
	if kind != "" && kind != models.KindBackpack && kind != models.KindContainer {
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind: %s", kind)), nil
	}
	owner := optionalString(req, "owner")
	item := optionalString(req, "item")

	rows, total, err := s.db.ListStashes(kind, owner, item, 100, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d stashes\n", total)
	for _, r := range rows {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", r.Key, r.Kind, r.Owner)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getStash(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := s.db.GetStash(key)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", key)), nil
	}
	return mcp.NewToolResultText(row.Record), nil
}

func (s *Server) getQuerySyntax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(QuerySyntaxContract), nil
}

func (s *Server) readQuerySyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "stashview://query-syntax",
			MIMEType: "text/markdown",
			Text:     QuerySyntaxContract,
		},
	}, nil
}

func optionalString(req mcp.CallToolRequest, name string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return ""
}
