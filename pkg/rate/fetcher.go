package rate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var errMalformedQuote = errors.New("rate: malformed quote payload")

// Fetcher issues one external quote query.
type Fetcher interface {
	Fetch(ctx context.Context) (float64, error)
}

// DefaultQuoteURL is the coingecko simple-price endpoint for SUI in NGN.
const DefaultQuoteURL = "https://api.coingecko.com/api/v3/simple/price?ids=sui&vs_currencies=ngn"

// HTTPFetcher fetches the SUI→NGN quote from a coingecko-shaped endpoint:
// a JSON object {"sui": {"ngn": <number>}}.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// HTTPFetcherConfig holds fetcher configuration.
type HTTPFetcherConfig struct {
	// URL of the quote endpoint. Defaults to DefaultQuoteURL.
	URL string

	// Timeout bounds each query. Defaults to 10s.
	Timeout time.Duration
}

// NewHTTPFetcher creates a quote fetcher.
func NewHTTPFetcher(config HTTPFetcherConfig) *HTTPFetcher {
	if config.URL == "" {
		config.URL = DefaultQuoteURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &HTTPFetcher{
		url:    config.URL,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Fetch issues the GET and extracts the numeric rate. Any shape deviation is
// an error; the provider decides how to degrade.
func (f *HTTPFetcher) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, fmt.Errorf("rate: failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate: quote fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate: quote endpoint returned status %d", resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %v", errMalformedQuote, err)
	}

	ngn, ok := payload["sui"]["ngn"]
	if !ok || ngn <= 0 {
		return 0, errMalformedQuote
	}
	return ngn, nil
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) (float64, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) (float64, error) {
	return f(ctx)
}
