package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/stockyhq/stocky/internal/models"
)

// Query is the common search parameter set each adapter maps onto its
// provider's own query-string vocabulary.
type Query struct {
	Text    string
	PerPage int
	Page    int
	SortBy  models.SortOrder
}

// Adapter is the per-provider translation layer between the common
// schema and a provider-native API. Adapters fail independently and
// always return a *Error, never panic into the caller.
type Adapter interface {
	// Name returns the provider this adapter talks to.
	Name() models.Provider

	// Search queries the provider and maps its response to the
	// normalized schema.
	Search(ctx context.Context, q Query) ([]models.ImageResult, error)

	// GetDetail fetches a single image by the provider's native id.
	GetDetail(ctx context.Context, nativeID string) (*models.ImageResult, error)
}

const retryBackoff = 250 * time.Millisecond

// getJSON issues a GET with the given headers and decodes a 2xx JSON
// body into out. Transport-level failures are retried once after a
// short backoff; HTTP error statuses are not retried. All failures come
// back as *Error.
func getJSON(ctx context.Context, client *http.Client, p models.Provider, rawURL string, header http.Header, out interface{}) error {
	resp, err := doGet(ctx, client, p, rawURL, header)
	if err != nil {
		if !IsKind(err, KindTimeout) && ctx.Err() == nil {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return NewError(p, KindTimeout, "request cancelled: %v", ctx.Err())
			}
			resp, err = doGet(ctx, client, p, rawURL, header)
		}
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Provider: p,
			Kind:     KindHTTPError,
			Message:  fmt.Sprintf("unexpected status %s", resp.Status),
			Status:   resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewError(p, KindMalformedResponse, "failed to decode response: %v", err)
	}
	return nil
}

func doGet(ctx context.Context, client *http.Client, p models.Provider, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewError(p, KindHTTPError, "failed to create request: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, NewError(p, KindTimeout, "request timed out: %v", err)
		}
		return nil, NewError(p, KindHTTPError, "request failed: %v", err)
	}
	return resp, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
