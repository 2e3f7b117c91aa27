package server

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/stockyhq/stocky/internal/models"
	"github.com/stockyhq/stocky/internal/provider"
	"github.com/stockyhq/stocky/internal/search"
)

// Server exposes the aggregated image search as MCP tools.
type Server struct {
	mcp     *mcpserver.MCPServer
	manager *search.Manager
}

// New builds the MCP server and registers the two tools plus the help
// resource.
func New(manager *search.Manager, version string) *Server {
	s := &Server{
		mcp:     mcpserver.NewMCPServer("stocky", version),
		manager: manager,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcp)
}

// NewHTTPServer returns a streamable HTTP transport for the same tool
// set, for hosts that prefer HTTP over stdio.
func (s *Server) NewHTTPServer() *mcpserver.StreamableHTTPServer {
	return mcpserver.NewStreamableHTTPServer(s.mcp)
}

func (s *Server) registerTools() {
	searchTool := mcp.NewTool("search_stock_images",
		mcp.WithDescription("Search for royalty-free stock images across Pexels, Unsplash and Pixabay"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text search terms"),
		),
		mcp.WithArray("providers",
			mcp.Description("Subset of providers to query: pexels, unsplash, pixabay (defaults to all)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("per_page",
			mcp.Description("Results per provider page, 1-50 (default 20)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number, starting at 1"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort order: relevance or newest (default relevance)"),
		),
		mcp.WithBoolean("include_attribution",
			mcp.Description("Include attribution URLs (defaults to ENABLE_ATTRIBUTION_LINKS)"),
		),
	)
	s.mcp.AddTool(searchTool, s.handleSearch)

	detailTool := mcp.NewTool("get_image_details",
		mcp.WithDescription("Get detailed information about a single image by its composite id, e.g. pexels:123456"),
		mcp.WithString("image_id",
			mcp.Required(),
			mcp.Description("Composite image id in the form provider:nativeId"),
		),
		mcp.WithBoolean("include_attribution",
			mcp.Description("Include attribution URLs (defaults to ENABLE_ATTRIBUTION_LINKS)"),
		),
	)
	s.mcp.AddTool(detailTool, s.handleDetail)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	searchReq := models.SearchRequest{
		Query:   cast.ToString(args["query"]),
		PerPage: cast.ToInt(args["per_page"]),
		Page:    cast.ToInt(args["page"]),
	}
	// The tool surface clamps oversized pages instead of rejecting them
	if searchReq.PerPage > models.MaxPerPage {
		searchReq.PerPage = models.MaxPerPage
	}

	sortBy, err := models.ParseSortOrder(cast.ToString(args["sort_by"]))
	if err != nil {
		return mcp.NewToolResultError(provider.NewError("", provider.KindInvalidParameter, "%v", err).Error()), nil
	}
	searchReq.SortBy = sortBy

	if raw, ok := args["providers"]; ok && raw != nil {
		for _, name := range cast.ToStringSlice(raw) {
			p, err := models.ParseProvider(name)
			if err != nil {
				return mcp.NewToolResultError(provider.NewError("", provider.KindInvalidParameter, "%v", err).Error()), nil
			}
			searchReq.Providers = append(searchReq.Providers, p)
		}
	}

	resp, err := s.manager.Search(ctx, searchReq, boolArg(args, "include_attribution"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	imageID := cast.ToString(args["image_id"])
	result, err := s.manager.GetDetail(ctx, imageID, boolArg(args, "include_attribution"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

// boolArg distinguishes "not provided" from an explicit false.
func boolArg(args map[string]any, key string) *bool {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}
	b := cast.ToBool(raw)
	return &b
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
