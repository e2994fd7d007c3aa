package gutendex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lerrors "github.com/lepinkainen/literalura/internal/errors"
	"github.com/lepinkainen/literalura/internal/ratelimit"
)

// Client issues search requests against a Gutendex instance. Construct one
// long-lived client and pass it to the ingestion flow; it carries its own
// HTTP client and rate limiter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *ratelimit.Limiter
}

// NewClient creates a Client for the given base URL (no trailing slash).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    ratelimit.New("Gutendex", 1),
	}
}

// EncodeTerm normalizes a free-text search term the way the API expects:
// lower-cased, spaces replaced with %20.
func EncodeTerm(term string) string {
	return strings.ReplaceAll(strings.ToLower(term), " ", "%20")
}

// Search sends a single GET for the first results page and returns the raw
// response body. There is no retry and no pagination traversal; callers must
// not assume the payload even contains a results field.
func (c *Client) Search(ctx context.Context, term string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	url := fmt.Sprintf("%s/books/?search=%s", c.baseURL, EncodeTerm(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lerrors.NewTransportError("failed to create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, lerrors.NewTransportError("gutendex request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lerrors.NewTransportError("failed to read response body", err)
	}

	return body, nil
}
