package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/stockyhq/stocky/internal/models"
	"github.com/stockyhq/stocky/internal/provider"
	"github.com/stockyhq/stocky/pkg/logger"
)

// GetDetail parses a composite image id, routes the lookup to the
// owning provider's adapter, and surfaces its error unchanged. Only one
// provider is involved, so there is no partial-failure recovery here.
func (m *Manager) GetDetail(ctx context.Context, id string, includeAttribution *bool) (*models.ImageResult, error) {
	p, nativeID, err := models.ParseID(id)
	if err != nil {
		return nil, &provider.Error{Kind: provider.KindInvalidID, Message: err.Error()}
	}

	adapter, ok := m.adapters[p]
	if !ok {
		return nil, &provider.Error{Kind: provider.KindInvalidID, Message: "no adapter for provider " + string(p)}
	}

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	result, err := adapter.GetDetail(cctx, nativeID)
	if err != nil {
		logger.Warn("detail lookup failed",
			zap.String("image_id", id),
			zap.Error(err),
		)
		return nil, provider.AsError(p, err)
	}

	if !m.showAttribution(includeAttribution) {
		result.AttributionURL = ""
	}
	return result, nil
}
