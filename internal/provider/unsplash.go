package provider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/stockyhq/stocky/internal/config"
	"github.com/stockyhq/stocky/internal/models"
	"github.com/stockyhq/stocky/pkg/logger"
)

const unsplashLicense = "Free to use under Unsplash License"

// UnsplashAdapter talks to the Unsplash photo API.
type UnsplashAdapter struct {
	accessKey string
	baseURL   string
	client    *http.Client
	log       *zap.Logger
}

// NewUnsplash creates an Unsplash adapter. A missing access key is
// allowed; calls will fail with MissingCredential instead.
func NewUnsplash(cfg *config.UnsplashConfig, timeout time.Duration) *UnsplashAdapter {
	return &UnsplashAdapter{
		accessKey: cfg.AccessKey,
		baseURL:   cfg.BaseURL,
		client:    &http.Client{Timeout: timeout},
		log:       logger.Named("unsplash"),
	}
}

func (a *UnsplashAdapter) Name() models.Provider {
	return models.ProviderUnsplash
}

type unsplashPhoto struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Full    string `json:"full"`
		Regular string `json:"regular"`
		Small   string `json:"small"`
	} `json:"urls"`
	User struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
	Tags []struct {
		Title string `json:"title"`
	} `json:"tags"`
}

type unsplashSearchResponse struct {
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Results    []unsplashPhoto `json:"results"`
}

// Search queries the Unsplash search endpoint. Sort orders map to the
// order_by vocabulary: relevance -> relevant, newest -> latest.
func (a *UnsplashAdapter) Search(ctx context.Context, q Query) ([]models.ImageResult, error) {
	if a.accessKey == "" {
		return nil, NewError(models.ProviderUnsplash, KindMissingCredential, "UNSPLASH_ACCESS_KEY is not set")
	}

	params := url.Values{}
	params.Set("query", q.Text)
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("page", strconv.Itoa(q.Page))
	if q.SortBy == models.SortNewest {
		params.Set("order_by", "latest")
	} else {
		params.Set("order_by", "relevant")
	}

	var data unsplashSearchResponse
	if err := getJSON(ctx, a.client, models.ProviderUnsplash, a.baseURL+"/search/photos?"+params.Encode(), a.header(), &data); err != nil {
		return nil, err
	}

	results := make([]models.ImageResult, 0, len(data.Results))
	for _, photo := range data.Results {
		results = append(results, a.toResult(photo, false))
	}

	a.log.Debug("search completed",
		zap.String("query", q.Text),
		zap.Int("result_count", len(results)),
	)
	return results, nil
}

// GetDetail fetches a single photo by its Unsplash id.
func (a *UnsplashAdapter) GetDetail(ctx context.Context, nativeID string) (*models.ImageResult, error) {
	if a.accessKey == "" {
		return nil, NewError(models.ProviderUnsplash, KindMissingCredential, "UNSPLASH_ACCESS_KEY is not set")
	}

	var photo unsplashPhoto
	if err := getJSON(ctx, a.client, models.ProviderUnsplash, a.baseURL+"/photos/"+url.PathEscape(nativeID), a.header(), &photo); err != nil {
		return nil, err
	}

	result := a.toResult(photo, true)
	return &result, nil
}

func (a *UnsplashAdapter) header() http.Header {
	return http.Header{
		"Authorization":  {"Client-ID " + a.accessKey},
		"Accept-Version": {"v1"},
	}
}

// toResult maps an Unsplash photo to the normalized schema. Detail
// lookups get the full-size URL, search results the regular one, as the
// respective endpoints are documented to serve.
func (a *UnsplashAdapter) toResult(photo unsplashPhoto, detail bool) models.ImageResult {
	title := photo.Description
	if title == "" {
		title = photo.AltDescription
	}
	if title == "" {
		title = "Photo by " + photo.User.Name
	}
	displayURL, thumbURL := photo.URLs.Regular, photo.URLs.Small
	if detail {
		displayURL, thumbURL = photo.URLs.Full, photo.URLs.Regular
	}
	var tags []string
	for _, tag := range photo.Tags {
		tags = append(tags, tag.Title)
	}
	return models.ImageResult{
		ID:                  models.ComposeID(models.ProviderUnsplash, photo.ID),
		Provider:            models.ProviderUnsplash,
		Title:               title,
		Description:         photo.AltDescription,
		URL:                 displayURL,
		ThumbnailURL:        thumbURL,
		Width:               photo.Width,
		Height:              photo.Height,
		Photographer:        photo.User.Name,
		PhotographerURL:     photo.User.Links.HTML,
		License:             unsplashLicense,
		AttributionRequired: true,
		AttributionURL:      "https://unsplash.com/photos/" + photo.ID,
		Tags:                tags,
	}
}
