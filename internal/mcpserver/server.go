// Package mcpserver exposes Almanac date tools to LLM clients over the
// Model Context Protocol (stdio transport).
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/almanac/internal/apperr"
	"github.com/starford/almanac/internal/catalog"
	"github.com/starford/almanac/internal/storage"
)

const dateFormatURI = "almanac://date-format"

// Server wraps the MCP server with Almanac tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	svc   *catalog.Service
}

// New creates a new MCP server with all Almanac tools registered.
func New(store storage.Provider, svc *catalog.Service) *Server {
	s := &Server{store: store, svc: svc}

	s.mcp = server.NewMCPServer(
		"Almanac",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("normalize_date",
		mcp.WithDescription("Parse a free-text historical date (e.g. 'c. 1780', '4 BC', 'May 1850') "+
			"into its canonical form, year/month/day parts and approximate sort value."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Date text to parse")),
	), s.normalizeDate)

	s.mcp.AddTool(mcp.NewTool("parse_canonical",
		mcp.WithDescription("Decompose a stored canonical date string. See the "+dateFormatURI+" resource."),
		mcp.WithString("value", mcp.Required(), mcp.Description("Canonical date string, e.g. '1985-06 [fl.]'")),
	), s.parseCanonical)

	s.mcp.AddTool(mcp.NewTool("timeline",
		mcp.WithDescription("List indexed record dates in chronological order."),
		mcp.WithNumber("from", mcp.Description("First year, inclusive")),
		mcp.WithNumber("to", mcp.Description("Last year, inclusive")),
		mcp.WithNumber("limit", mcp.Description("Max entries (default 100)")),
	), s.timeline)

	s.mcp.AddTool(mcp.NewTool("record_dates",
		mcp.WithDescription("Return the normalized dates found in one record's frontmatter."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative record path (e.g. people/ada.md)")),
	), s.recordDates)

	s.mcp.AddTool(mcp.NewTool("search_dates",
		mcp.WithDescription("Search raw date text, canonical forms, qualifiers and record titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDates)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read the full Markdown content of a record."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative record path")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("create_record",
		mcp.WithDescription("Create a Markdown record. Dates go in YAML frontmatter under the configured "+
			"date fields; they are normalized and indexed on write."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new record (must end with .md)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content with YAML frontmatter")),
	), s.createRecord)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List all records or records in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listRecords)

	s.mcp.AddResource(
		mcp.NewResource(dateFormatURI, "Date Format",
			mcp.WithResourceDescription("Canonical date string format used by the index."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDateFormatResource,
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

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// optInt reads an optional numeric argument. JSON numbers arrive as float64.
func optInt(req mcp.CallToolRequest, key string) (*int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		n := int(v)
		return &n, nil
	case int:
		return &v, nil
	default:
		return nil, fmt.Errorf("%s must be a number", key)
	}
}

func (s *Server) normalizeDate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Normalize(text)), nil
}

func (s *Server) parseCanonical(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.Canonical(value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n), nil
}

func (s *Server) timeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := optInt(req, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := optInt(req, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := 0
	if l, err := optInt(req, "limit"); err == nil && l != nil {
		limit = *l
	}
	entries, err := s.svc.Timeline(ctx, from, to, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries), nil
}

func (s *Server) recordDates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dates, err := s.svc.RecordDates(ctx, path)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not indexed: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(dates), nil
}

func (s *Server) searchDates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries), nil
}

func (s *Server) readRecord(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !storage.IsRecord(path) {
		return mcp.NewToolResultError("path must name a visible .md file"), nil
	}

	rec, err := s.svc.CreateRecord(ctx, path, []byte(content))
	if errors.Is(err, apperr.ErrAlreadyExists) {
		return mcp.NewToolResultError(fmt.Sprintf("record already exists: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%d dates)", path, len(rec.Dates))), nil
}

func (s *Server) listRecords(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.store.List(req.GetString("folder", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths := make([]string, 0, len(metas))
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) readDateFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      dateFormatURI,
			MIMEType: "text/markdown",
			Text:     DateFormatContract,
		},
	}, nil
}
