// Hymnal API [HymnalService] implementation
//
// Talks to the hymnal.net JSON API (hymnalnetapi) over plain HTTP GETs.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
	"golang.org/x/time/rate"
)

const defaultHymnalBaseURL string = "https://hymnalnetapi.herokuapp.com"

// HymnalService fetches hymns and search pages from the hymnal API.
//
// Requests are paced by a token bucket so bulk work such as prefetching does not flood the API.
type HymnalService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHymnalService creates a new hymnal API client. A non-positive requestsPerSecond disables pacing.
func NewHymnalService(baseURL string, client *http.Client, requestsPerSecond float64) *HymnalService {
	if baseURL == "" {
		baseURL = defaultHymnalBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &HymnalService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Name returns the service name.
func (h *HymnalService) Name() string {
	return "Hymnal.net"
}

func (h *HymnalService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := h.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", shared.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", shared.ErrNetwork, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w: %s", shared.ErrNetwork, shared.ErrHymnNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: hymnal API error: status %d", shared.ErrNetwork, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrNetwork, err)
	}
	return nil
}

// GetHymn retrieves one hymn.
//
// Calls GET /v2/hymn/{type}/{number}?{params}.
func (h *HymnalService) GetHymn(ctx context.Context, id models.Identifier) (*models.Hymn, error) {
	endpoint := fmt.Sprintf("/v2/hymn/%s/%s", url.PathEscape(string(id.Type)), url.PathEscape(id.Number))
	if len(id.QueryParams) > 0 {
		values := url.Values{}
		for k, v := range id.QueryParams {
			values.Set(k, v)
		}
		endpoint += "?" + values.Encode()
	}

	var hymn models.Hymn
	if err := h.doRequest(ctx, endpoint, &hymn); err != nil {
		return nil, err
	}
	return &hymn, nil
}

// Search retrieves one page of results for query. Pages start at 1.
//
// Calls GET /v2/search/{query}/{page}.
func (h *HymnalService) Search(ctx context.Context, query string, page int) (*models.SongResultsPage, error) {
	endpoint := "/v2/search/" + url.PathEscape(query) + "/" + strconv.Itoa(page)

	var results models.SongResultsPage
	if err := h.doRequest(ctx, endpoint, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
