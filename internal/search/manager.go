package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockyhq/stocky/internal/config"
	"github.com/stockyhq/stocky/internal/models"
	"github.com/stockyhq/stocky/internal/provider"
	"github.com/stockyhq/stocky/pkg/logger"
)

// Manager owns one adapter per provider and orchestrates aggregated
// searches across them.
type Manager struct {
	adapters    map[models.Provider]provider.Adapter
	timeout     time.Duration
	attribution bool
}

// NewManager creates a manager with all three provider adapters. Every
// adapter is registered regardless of configured credentials; a
// provider without a credential reports MissingCredential per request.
func NewManager(cfg *config.Config) *Manager {
	timeout := time.Duration(cfg.Search.ProviderTimeout) * time.Second
	return &Manager{
		adapters: map[models.Provider]provider.Adapter{
			models.ProviderPexels:   provider.NewPexels(&cfg.Pexels, timeout),
			models.ProviderUnsplash: provider.NewUnsplash(&cfg.Unsplash, timeout),
			models.ProviderPixabay:  provider.NewPixabay(&cfg.Pixabay, timeout),
		},
		timeout:     timeout,
		attribution: cfg.Search.AttributionLinks,
	}
}

// fetchOutcome is what one provider goroutine reports back.
type fetchOutcome struct {
	provider models.Provider
	results  []models.ImageResult
	err      error
	duration time.Duration
}

// Search validates the request, fans out to every selected provider
// concurrently, and merges the outcomes. Provider failures never abort
// the search; they become error entries in the per-provider status map.
// The includeAttribution override, when non-nil, takes precedence over
// the configured default.
func (m *Manager) Search(ctx context.Context, req models.SearchRequest, includeAttribution *bool) (*models.SearchResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, &provider.Error{Kind: provider.KindInvalidParameter, Message: err.Error()}
	}
	for _, p := range req.Providers {
		if _, ok := m.adapters[p]; !ok {
			return nil, provider.NewError(p, provider.KindInvalidParameter, "unknown provider: %q", p)
		}
	}

	requestID := uuid.NewString()
	log := logger.WithRequestID(requestID)
	start := time.Now()

	q := provider.Query{
		Text:    req.Query,
		PerPage: req.PerPage,
		Page:    req.Page,
		SortBy:  req.SortBy,
	}

	outcomes := make(chan fetchOutcome, len(req.Providers))
	var wg sync.WaitGroup
	for _, p := range req.Providers {
		wg.Add(1)
		go m.fetch(ctx, m.adapters[p], q, outcomes, &wg)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	byProvider := make(map[models.Provider]fetchOutcome, len(req.Providers))
	for outcome := range outcomes {
		byProvider[outcome.provider] = outcome
		if outcome.err != nil {
			log.Warn("provider failed",
				zap.String("provider", string(outcome.provider)),
				zap.Duration("duration", outcome.duration),
				zap.Error(outcome.err),
			)
		} else {
			log.Debug("provider succeeded",
				zap.String("provider", string(outcome.provider)),
				zap.Duration("duration", outcome.duration),
				zap.Int("result_count", len(outcome.results)),
			)
		}
	}

	resp := &models.SearchResponse{
		RequestID: requestID,
		Query:     req.Query,
		Page:      req.Page,
		PerPage:   req.PerPage,
		SortBy:    req.SortBy,
		Results:   make([]models.ImageResult, 0),
		Providers: make(map[models.Provider]models.ProviderStatus, len(req.Providers)),
	}

	// Concatenate in canonical order, never goroutine completion order.
	for _, p := range models.CanonicalProviders {
		outcome, requested := byProvider[p]
		if !requested {
			continue
		}
		if outcome.err != nil {
			pe := provider.AsError(p, outcome.err)
			resp.Providers[p] = models.ProviderStatus{
				Status: models.StatusError,
				Kind:   string(pe.Kind),
				Error:  pe.Message,
			}
			continue
		}
		resp.Providers[p] = models.ProviderStatus{
			Status: models.StatusOK,
			Count:  len(outcome.results),
		}
		resp.Results = append(resp.Results, outcome.results...)
	}

	if !m.showAttribution(includeAttribution) {
		for i := range resp.Results {
			resp.Results[i].AttributionURL = ""
		}
	}

	log.Info("search completed",
		zap.String("query", req.Query),
		zap.Int("result_count", len(resp.Results)),
		zap.Int("providers_queried", len(req.Providers)),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// fetch runs one provider call under its own deadline so a slow
// provider cannot block or fail the others.
func (m *Manager) fetch(parent context.Context, a provider.Adapter, q provider.Query, out chan<- fetchOutcome, wg *sync.WaitGroup) {
	defer wg.Done()

	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, m.timeout)
	defer cancel()

	results, err := a.Search(ctx, q)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !provider.IsKind(err, provider.KindTimeout) {
		err = provider.NewError(a.Name(), provider.KindTimeout, "provider timed out after %s", m.timeout)
	}

	out <- fetchOutcome{
		provider: a.Name(),
		results:  results,
		err:      err,
		duration: time.Since(start),
	}
}

func (m *Manager) showAttribution(override *bool) bool {
	if override != nil {
		return *override
	}
	return m.attribution
}
