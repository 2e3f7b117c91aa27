package models

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	t.Run("Canonical form", func(t *testing.T) {
		p, nativeID, err := ParseID("pexels:123456")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p != ProviderPexels {
			t.Errorf("Expected provider pexels, got %s", p)
		}
		if nativeID != "123456" {
			t.Errorf("Expected native id 123456, got %s", nativeID)
		}
	})

	t.Run("Legacy underscore form", func(t *testing.T) {
		p, nativeID, err := ParseID("pexels_123456")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p != ProviderPexels {
			t.Errorf("Expected provider pexels, got %s", p)
		}
		if nativeID != "123456" {
			t.Errorf("Expected native id 123456, got %s", nativeID)
		}
	})

	t.Run("Native id containing separator", func(t *testing.T) {
		p, nativeID, err := ParseID("unsplash:AbC_12-3")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p != ProviderUnsplash || nativeID != "AbC_12-3" {
			t.Errorf("Unexpected parse: %s / %s", p, nativeID)
		}
	})

	t.Run("No separator", func(t *testing.T) {
		_, _, err := ParseID("bogus")
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("Expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("Unknown provider", func(t *testing.T) {
		_, _, err := ParseID("flickr:12345")
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("Expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("Empty native id", func(t *testing.T) {
		_, _, err := ParseID("pexels:")
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("Expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("Round trip", func(t *testing.T) {
		for _, p := range CanonicalProviders {
			id := ComposeID(p, "abc123")
			got, nativeID, err := ParseID(id)
			if err != nil {
				t.Fatalf("Round trip failed for %s: %v", p, err)
			}
			if got != p || nativeID != "abc123" {
				t.Errorf("Round trip mismatch for %s: got %s / %s", p, got, nativeID)
			}
		}
	})
}

func TestSearchRequestNormalize(t *testing.T) {
	t.Run("Defaults applied", func(t *testing.T) {
		req := SearchRequest{Query: "sunset beach"}
		if err := req.Normalize(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if req.PerPage != DefaultPerPage {
			t.Errorf("Expected per_page %d, got %d", DefaultPerPage, req.PerPage)
		}
		if req.Page != 1 {
			t.Errorf("Expected page 1, got %d", req.Page)
		}
		if req.SortBy != SortRelevance {
			t.Errorf("Expected sort %s, got %s", SortRelevance, req.SortBy)
		}
		if len(req.Providers) != 3 {
			t.Errorf("Expected all 3 providers, got %v", req.Providers)
		}
	})

	t.Run("Empty query rejected", func(t *testing.T) {
		req := SearchRequest{Query: "   "}
		if err := req.Normalize(); err == nil {
			t.Error("Expected error for empty query")
		}
	})

	t.Run("PerPage out of range", func(t *testing.T) {
		for _, perPage := range []int{-1, 51, 500} {
			req := SearchRequest{Query: "cats", PerPage: perPage}
			if err := req.Normalize(); err == nil {
				t.Errorf("Expected error for per_page=%d", perPage)
			}
		}
	})

	t.Run("Page out of range", func(t *testing.T) {
		req := SearchRequest{Query: "cats", Page: -2}
		if err := req.Normalize(); err == nil {
			t.Error("Expected error for negative page")
		}
	})

	t.Run("Explicit values kept", func(t *testing.T) {
		req := SearchRequest{
			Query:     "cats",
			Providers: []Provider{ProviderUnsplash},
			PerPage:   5,
			Page:      3,
			SortBy:    SortNewest,
		}
		if err := req.Normalize(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if req.PerPage != 5 || req.Page != 3 || req.SortBy != SortNewest {
			t.Errorf("Values were not kept: %+v", req)
		}
		if len(req.Providers) != 1 || req.Providers[0] != ProviderUnsplash {
			t.Errorf("Provider subset was not kept: %v", req.Providers)
		}
	})
}

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"pexels", "Unsplash", " PIXABAY "} {
		if _, err := ParseProvider(name); err != nil {
			t.Errorf("Expected %q to parse, got %v", name, err)
		}
	}
	if _, err := ParseProvider("flickr"); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestParseSortOrder(t *testing.T) {
	cases := map[string]SortOrder{
		"":          SortRelevance,
		"relevance": SortRelevance,
		"relevant":  SortRelevance,
		"newest":    SortNewest,
		"latest":    SortNewest,
	}
	for in, want := range cases {
		got, err := ParseSortOrder(in)
		if err != nil {
			t.Errorf("ParseSortOrder(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSortOrder(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseSortOrder("popular"); err == nil {
		t.Error("Expected error for unknown sort order")
	}
}
