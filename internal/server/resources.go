package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const helpURI = "stock-images://help"

const helpText = `# Stocky Help

Stocky searches royalty-free stock images across Pexels, Unsplash and
Pixabay.

## Tools

### search_stock_images
Search for stock images across multiple providers.

Parameters:
- query (required): free-text search terms
- providers (optional): subset of ["pexels", "unsplash", "pixabay"]
- per_page (optional): results per provider page, max 50 (default 20)
- page (optional): page number, starting at 1
- sort_by (optional): "relevance" or "newest"
- include_attribution (optional): include attribution URLs

Results from all queried providers are merged into one list. Providers
that fail are reported in the per-provider status map without failing
the search.

### get_image_details
Get detailed information about a single image.

Parameters:
- image_id (required): composite id in the form provider:nativeId,
  e.g. "pexels:123456"
- include_attribution (optional): include attribution URLs

## Providers and credentials

- Pexels: set PEXELS_API_KEY (https://www.pexels.com/api/)
- Unsplash: set UNSPLASH_ACCESS_KEY (https://unsplash.com/developers)
- Pixabay: set PIXABAY_API_KEY (https://pixabay.com/api/docs/)

A provider without a credential reports MissingCredential for its part
of a search; the other providers still answer.

Set ENABLE_ATTRIBUTION_LINKS=true to include attribution URLs by
default. Check each result's license field before use.
`

func (s *Server) registerResources() {
	res := mcp.NewResource(helpURI, "Stocky usage help",
		mcp.WithResourceDescription("How to search stock images and look up image details"),
		mcp.WithMIMEType("text/markdown"),
	)
	s.mcp.AddResource(res, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      helpURI,
				MIMEType: "text/markdown",
				Text:     helpText,
			},
		}, nil
	})
}
