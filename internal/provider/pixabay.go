package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stockyhq/stocky/internal/config"
	"github.com/stockyhq/stocky/internal/models"
	"github.com/stockyhq/stocky/pkg/logger"
)

const pixabayLicense = "Free for commercial use, no attribution required"

// PixabayAdapter talks to the Pixabay API. Unlike the other providers,
// Pixabay authenticates via a key query parameter and serves detail
// lookups through the search endpoint's id filter.
type PixabayAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewPixabay creates a Pixabay adapter. A missing API key is allowed;
// calls will fail with MissingCredential instead.
func NewPixabay(cfg *config.PixabayConfig, timeout time.Duration) *PixabayAdapter {
	return &PixabayAdapter{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		log:     logger.Named("pixabay"),
	}
}

func (a *PixabayAdapter) Name() models.Provider {
	return models.ProviderPixabay
}

type pixabayHit struct {
	ID            int    `json:"id"`
	PageURL       string `json:"pageURL"`
	Tags          string `json:"tags"`
	PreviewURL    string `json:"previewURL"`
	WebFormatURL  string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	ImageWidth    int    `json:"imageWidth"`
	ImageHeight   int    `json:"imageHeight"`
	User          string `json:"user"`
	UserID        int    `json:"user_id"`
}

type pixabaySearchResponse struct {
	Total     int          `json:"total"`
	TotalHits int          `json:"totalHits"`
	Hits      []pixabayHit `json:"hits"`
}

// Search queries the Pixabay API. Sort orders map to the order
// vocabulary: relevance -> popular, newest -> latest.
func (a *PixabayAdapter) Search(ctx context.Context, q Query) ([]models.ImageResult, error) {
	if a.apiKey == "" {
		return nil, NewError(models.ProviderPixabay, KindMissingCredential, "PIXABAY_API_KEY is not set")
	}

	params := url.Values{}
	params.Set("key", a.apiKey)
	params.Set("q", q.Text)
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("page", strconv.Itoa(q.Page))
	if q.SortBy == models.SortNewest {
		params.Set("order", "latest")
	} else {
		params.Set("order", "popular")
	}

	var data pixabaySearchResponse
	if err := getJSON(ctx, a.client, models.ProviderPixabay, a.baseURL+"/?"+params.Encode(), nil, &data); err != nil {
		return nil, err
	}

	results := make([]models.ImageResult, 0, len(data.Hits))
	for _, hit := range data.Hits {
		results = append(results, a.toResult(hit))
	}

	a.log.Debug("search completed",
		zap.String("query", q.Text),
		zap.Int("result_count", len(results)),
	)
	return results, nil
}

// GetDetail fetches a single image via the id filter. Pixabay answers
// an unknown but well-formed id with a 2xx response and an empty hits
// array, which maps to NotFound.
func (a *PixabayAdapter) GetDetail(ctx context.Context, nativeID string) (*models.ImageResult, error) {
	if a.apiKey == "" {
		return nil, NewError(models.ProviderPixabay, KindMissingCredential, "PIXABAY_API_KEY is not set")
	}

	params := url.Values{}
	params.Set("key", a.apiKey)
	params.Set("id", nativeID)

	var data pixabaySearchResponse
	if err := getJSON(ctx, a.client, models.ProviderPixabay, a.baseURL+"/?"+params.Encode(), nil, &data); err != nil {
		return nil, err
	}
	if len(data.Hits) == 0 {
		return nil, NewError(models.ProviderPixabay, KindNotFound, "no image with id %s", nativeID)
	}

	result := a.toResult(data.Hits[0])
	return &result, nil
}

func (a *PixabayAdapter) toResult(hit pixabayHit) models.ImageResult {
	var tags []string
	for _, tag := range strings.Split(hit.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	title := hit.Tags
	if title == "" {
		title = "Image by " + hit.User
	}
	return models.ImageResult{
		ID:                  models.ComposeID(models.ProviderPixabay, strconv.Itoa(hit.ID)),
		Provider:            models.ProviderPixabay,
		Title:               title,
		URL:                 hit.LargeImageURL,
		ThumbnailURL:        hit.WebFormatURL,
		Width:               hit.ImageWidth,
		Height:              hit.ImageHeight,
		Photographer:        hit.User,
		PhotographerURL:     fmt.Sprintf("https://pixabay.com/users/%s-%d/", hit.User, hit.UserID),
		License:             pixabayLicense,
		AttributionRequired: false,
		AttributionURL:      hit.PageURL,
		Tags:                tags,
	}
}
