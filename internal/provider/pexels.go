package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/stockyhq/stocky/internal/config"
	"github.com/stockyhq/stocky/internal/models"
	"github.com/stockyhq/stocky/pkg/logger"
)

const pexelsLicense = "Free to use, attribution appreciated"

// PexelsAdapter talks to the Pexels photo API.
type PexelsAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewPexels creates a Pexels adapter. A missing API key is allowed;
// calls will fail with MissingCredential instead.
func NewPexels(cfg *config.PexelsConfig, timeout time.Duration) *PexelsAdapter {
	return &PexelsAdapter{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		log:     logger.Named("pexels"),
	}
}

func (a *PexelsAdapter) Name() models.Provider {
	return models.ProviderPexels
}

type pexelsPhoto struct {
	ID              int    `json:"id"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	URL             string `json:"url"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Src             struct {
		Original string `json:"original"`
		Large    string `json:"large"`
		Medium   string `json:"medium"`
	} `json:"src"`
}

type pexelsSearchResponse struct {
	TotalResults int           `json:"total_results"`
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Photos       []pexelsPhoto `json:"photos"`
}

// Search queries the Pexels search endpoint. Pexels has no sort
// parameter; both sort orders map to the API's own ranking.
func (a *PexelsAdapter) Search(ctx context.Context, q Query) ([]models.ImageResult, error) {
	if a.apiKey == "" {
		return nil, NewError(models.ProviderPexels, KindMissingCredential, "PEXELS_API_KEY is not set")
	}

	params := url.Values{}
	params.Set("query", q.Text)
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("page", strconv.Itoa(q.Page))

	var data pexelsSearchResponse
	header := http.Header{"Authorization": {a.apiKey}}
	if err := getJSON(ctx, a.client, models.ProviderPexels, a.baseURL+"/search?"+params.Encode(), header, &data); err != nil {
		return nil, err
	}

	results := make([]models.ImageResult, 0, len(data.Photos))
	for _, photo := range data.Photos {
		results = append(results, a.toResult(photo))
	}

	a.log.Debug("search completed",
		zap.String("query", q.Text),
		zap.Int("result_count", len(results)),
	)
	return results, nil
}

// GetDetail fetches a single photo by its numeric Pexels id.
func (a *PexelsAdapter) GetDetail(ctx context.Context, nativeID string) (*models.ImageResult, error) {
	if a.apiKey == "" {
		return nil, NewError(models.ProviderPexels, KindMissingCredential, "PEXELS_API_KEY is not set")
	}

	var photo pexelsPhoto
	header := http.Header{"Authorization": {a.apiKey}}
	if err := getJSON(ctx, a.client, models.ProviderPexels, a.baseURL+"/photos/"+url.PathEscape(nativeID), header, &photo); err != nil {
		return nil, err
	}

	result := a.toResult(photo)
	return &result, nil
}

func (a *PexelsAdapter) toResult(photo pexelsPhoto) models.ImageResult {
	title := photo.Alt
	if title == "" {
		title = "Photo by " + photo.Photographer
	}
	var tags []string
	if photo.Alt != "" {
		tags = []string{photo.Alt}
	}
	return models.ImageResult{
		ID:                  models.ComposeID(models.ProviderPexels, strconv.Itoa(photo.ID)),
		Provider:            models.ProviderPexels,
		Title:               title,
		Description:         photo.Alt,
		URL:                 photo.Src.Large,
		ThumbnailURL:        photo.Src.Medium,
		Width:               photo.Width,
		Height:              photo.Height,
		Photographer:        photo.Photographer,
		PhotographerURL:     photo.PhotographerURL,
		License:             pexelsLicense,
		AttributionRequired: false,
		AttributionURL:      fmt.Sprintf("https://www.pexels.com/photo/%d", photo.ID),
		Tags:                tags,
	}
}
