package models

import (
	"fmt"
	"strings"
)

// Provider identifies one of the supported stock image services.
type Provider string

const (
	ProviderPexels   Provider = "pexels"
	ProviderUnsplash Provider = "unsplash"
	ProviderPixabay  Provider = "pixabay"
)

// CanonicalProviders is the fixed order in which merged results are
// concatenated. Relevance scores are not comparable across providers,
// so there is no cross-provider re-ranking.
var CanonicalProviders = []Provider{ProviderPexels, ProviderUnsplash, ProviderPixabay}

// ParseProvider validates a provider name from user input.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderPexels:
		return ProviderPexels, nil
	case ProviderUnsplash:
		return ProviderUnsplash, nil
	case ProviderPixabay:
		return ProviderPixabay, nil
	}
	return "", fmt.Errorf("unknown provider: %q", name)
}

// SortOrder selects how each provider orders its own page of results.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortNewest    SortOrder = "newest"
)

// ParseSortOrder accepts the canonical names plus the aliases the
// original tool surface used ("relevant", "latest").
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relevance", "relevant":
		return SortRelevance, nil
	case "newest", "latest":
		return SortNewest, nil
	}
	return "", fmt.Errorf("unknown sort order: %q", s)
}

// ImageResult is the normalized record every provider response is
// mapped into. Constructed fresh per response, never persisted.
type ImageResult struct {
	ID                  string   `json:"id"`
	Provider            Provider `json:"provider"`
	Title               string   `json:"title,omitempty"`
	Description         string   `json:"description,omitempty"`
	URL                 string   `json:"url"`
	ThumbnailURL        string   `json:"thumbnail_url"`
	Width               int      `json:"width"`
	Height              int      `json:"height"`
	Photographer        string   `json:"photographer"`
	PhotographerURL     string   `json:"photographer_url,omitempty"`
	License             string   `json:"license"`
	AttributionRequired bool     `json:"attribution_required"`
	AttributionURL      string   `json:"attribution_url,omitempty"`
	Tags                []string `json:"tags,omitempty"`
}

// SearchRequest carries the parameters of one aggregated search.
type SearchRequest struct {
	Query     string     `json:"query"`
	Providers []Provider `json:"providers,omitempty"`
	PerPage   int        `json:"per_page,omitempty"`
	Page      int        `json:"page,omitempty"`
	SortBy    SortOrder  `json:"sort_by,omitempty"`
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 50
)

// Normalize applies defaults and validates ranges. A zero value means
// "not provided" and takes the default; anything else out of range is
// an error so callers can reject the request before any network call.
func (r *SearchRequest) Normalize() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}
	if r.PerPage == 0 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage < 1 || r.PerPage > MaxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d, got %d", MaxPerPage, r.PerPage)
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", r.Page)
	}
	if r.SortBy == "" {
		r.SortBy = SortRelevance
	}
	if r.SortBy != SortRelevance && r.SortBy != SortNewest {
		return fmt.Errorf("unknown sort order: %q", r.SortBy)
	}
	if len(r.Providers) == 0 {
		r.Providers = append([]Provider(nil), CanonicalProviders...)
	}
	return nil
}

// Per-provider outcomes a search can report.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ProviderStatus reports how a single provider fared in a search.
type ProviderStatus struct {
	Status string `json:"status"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
	Count  int    `json:"count"`
}

// SearchResponse is the merged result of one aggregated search.
// Results are concatenated in canonical provider order; providers that
// failed contribute no results but always appear in Providers.
type SearchResponse struct {
	RequestID string                      `json:"request_id"`
	Query     string                      `json:"query"`
	Page      int                         `json:"page"`
	PerPage   int                         `json:"per_page"`
	SortBy    SortOrder                   `json:"sort_by"`
	Results   []ImageResult               `json:"results"`
	Providers map[Provider]ProviderStatus `json:"providers"`
}
