package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	// DefaultAPIURL is the api-ninjas holidays endpoint
	DefaultAPIURL = "https://api.api-ninjas.com/v1/holidays"

	defaultHTTPTimeout = 10 * time.Second
	apiKeyHeader       = "X-Api-Key"
)

// Client fetches holiday records from the holiday HTTP API.
// It issues exactly one request per Fetch; retry policy belongs to the caller.
type Client struct {
	apiURL     string
	keys       KeyProvider
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new holiday API client
func NewClient(apiURL string, keys KeyProvider, timeout time.Duration, logger *zap.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Client{
		apiURL: apiURL,
		keys:   keys,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// Fetch retrieves the raw holiday records for a country, optionally for one year
func (c *Client) Fetch(ctx context.Context, country string, year int) ([]Record, error) {
	country = normalizeCountry(country)

	key, err := c.keys.APIKey(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled(ctx)
		}
		return nil, &FetchError{Err: fmt.Errorf("failed to get API key: %w", err)}
	}

	reqURL, err := c.buildURL(country, year)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set(apiKeyHeader, key)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching holidays",
		zap.String("country", country),
		zap.Int("year", year))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled(ctx)
		}
		return nil, &FetchError{Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled(ctx)
		}
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body), Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	// The response may have raced a cancellation; the caller must not see it
	if ctx.Err() != nil {
		return nil, cancelled(ctx)
	}

	c.logger.Info("Holidays fetched from API",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("records", len(records)))

	return records, nil
}

func (c *Client) buildURL(country string, year int) (string, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid holidays API URL: %w", err)
	}

	q := u.Query()
	q.Set("country", country)
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
}
