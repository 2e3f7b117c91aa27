package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stockyhq/stocky/internal/config"
	"github.com/stockyhq/stocky/internal/models"
	"github.com/stockyhq/stocky/internal/search"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("Expected tool result content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

// newTestServer wires a server against stub provider endpoints. The
// pexels stub records the query parameters it was called with.
func newTestServer(t *testing.T) (*Server, *map[string]string) {
	t.Helper()

	var seen map[string]string
	pexelsTS := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/photos/") {
			w.Write([]byte(`{
				"id": 123456, "width": 100, "height": 100,
				"alt": "a cat", "photographer": "Jane",
				"photographer_url": "https://www.pexels.com/@jane",
				"src": {"large": "l", "medium": "m"}
			}`))
			return
		}
		seen = map[string]string{
			"query":    r.URL.Query().Get("query"),
			"per_page": r.URL.Query().Get("per_page"),
			"page":     r.URL.Query().Get("page"),
		}
		w.Write([]byte(`{
			"total_results": 1, "page": 1, "per_page": 1,
			"photos": [{
				"id": 123456, "width": 100, "height": 100,
				"alt": "a cat", "photographer": "Jane",
				"photographer_url": "https://www.pexels.com/@jane",
				"src": {"large": "l", "medium": "m"}
			}]
		}`))
	}))
	t.Cleanup(pexelsTS.Close)

	cfg := &config.Config{
		Pexels:   config.PexelsConfig{APIKey: "k", BaseURL: pexelsTS.URL},
		Unsplash: config.UnsplashConfig{BaseURL: "http://127.0.0.1:0"},
		Pixabay:  config.PixabayConfig{BaseURL: "http://127.0.0.1:0"},
		Search:   config.SearchConfig{ProviderTimeout: 5},
	}
	return New(search.NewManager(cfg), "test"), &seen
}

func TestHandleSearch(t *testing.T) {
	t.Run("Returns merged response", func(t *testing.T) {
		srv, _ := newTestServer(t)
		res, err := srv.handleSearch(context.Background(), callRequest("search_stock_images", map[string]any{
			"query":     "cats",
			"providers": []any{"pexels"},
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("Unexpected tool error: %s", resultText(t, res))
		}

		var resp models.SearchResponse
		if err := json.Unmarshal([]byte(resultText(t, res)), &resp); err != nil {
			t.Fatalf("Result is not valid JSON: %v", err)
		}
		if len(resp.Results) != 1 || resp.Results[0].ID != "pexels:123456" {
			t.Errorf("Unexpected results: %+v", resp.Results)
		}
		if resp.Providers[models.ProviderPexels].Status != models.StatusOK {
			t.Errorf("Expected pexels ok, got %+v", resp.Providers)
		}
	})

	t.Run("Empty query is a tool error", func(t *testing.T) {
		srv, seen := newTestServer(t)
		res, err := srv.handleSearch(context.Background(), callRequest("search_stock_images", map[string]any{
			"query": "",
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatal("Expected tool error for empty query")
		}
		if !strings.Contains(resultText(t, res), "InvalidParameter") {
			t.Errorf("Expected InvalidParameter in message, got %s", resultText(t, res))
		}
		if *seen != nil {
			t.Error("Expected no provider call for empty query")
		}
	})

	t.Run("Unknown provider is a tool error", func(t *testing.T) {
		srv, _ := newTestServer(t)
		res, err := srv.handleSearch(context.Background(), callRequest("search_stock_images", map[string]any{
			"query":     "cats",
			"providers": []any{"flickr"},
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !res.IsError || !strings.Contains(resultText(t, res), "InvalidParameter") {
			t.Errorf("Expected InvalidParameter tool error, got %s", resultText(t, res))
		}
	})

	t.Run("Oversized per_page is clamped", func(t *testing.T) {
		srv, seen := newTestServer(t)
		res, err := srv.handleSearch(context.Background(), callRequest("search_stock_images", map[string]any{
			"query":     "cats",
			"providers": []any{"pexels"},
			"per_page":  float64(80),
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("Unexpected tool error: %s", resultText(t, res))
		}
		if (*seen)["per_page"] != "50" {
			t.Errorf("Expected per_page clamped to 50, provider saw %q", (*seen)["per_page"])
		}
	})

	t.Run("Unknown sort order is a tool error", func(t *testing.T) {
		srv, _ := newTestServer(t)
		res, err := srv.handleSearch(context.Background(), callRequest("search_stock_images", map[string]any{
			"query":   "cats",
			"sort_by": "loudest",
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !res.IsError || !strings.Contains(resultText(t, res), "InvalidParameter") {
			t.Errorf("Expected InvalidParameter tool error, got %s", resultText(t, res))
		}
	})
}

func TestHandleDetail(t *testing.T) {
	t.Run("Invalid id is a tool error", func(t *testing.T) {
		srv, _ := newTestServer(t)
		res, err := srv.handleDetail(context.Background(), callRequest("get_image_details", map[string]any{
			"image_id": "bogus",
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !res.IsError || !strings.Contains(resultText(t, res), "InvalidId") {
			t.Errorf("Expected InvalidId tool error, got %s", resultText(t, res))
		}
	})

	t.Run("Returns normalized detail", func(t *testing.T) {
		srv, _ := newTestServer(t)
		res, err := srv.handleDetail(context.Background(), callRequest("get_image_details", map[string]any{
			"image_id":            "pexels:123456",
			"include_attribution": true,
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("Unexpected tool error: %s", resultText(t, res))
		}

		var result models.ImageResult
		if err := json.Unmarshal([]byte(resultText(t, res)), &result); err != nil {
			t.Fatalf("Result is not valid JSON: %v", err)
		}
		if result.ID != "pexels:123456" || result.Provider != models.ProviderPexels {
			t.Errorf("Unexpected detail result: %+v", result)
		}
		if result.AttributionURL == "" {
			t.Error("Expected attribution URL with include_attribution=true")
		}
	})
}
