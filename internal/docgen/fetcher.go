package docgen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Strategy is one way to reach a template URL. Direct access comes
// first; public CORS-proxy mirrors follow for templates hosted behind
// restrictive link permissions.
type Strategy struct {
	Name string
	// WrapURL turns the (cache-busted) template URL into the URL this
	// strategy actually requests.
	WrapURL func(raw string) string
}

// DefaultStrategies returns the stock chain: direct request, then the
// AllOrigins mirror, then corsproxy.io, tried in that fixed order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "direct", WrapURL: func(raw string) string { return raw }},
		{Name: "allorigins", WrapURL: func(raw string) string {
			return "https://api.allorigins.win/raw?url=" + url.QueryEscape(raw)
		}},
		{Name: "corsproxy", WrapURL: func(raw string) string {
			return "https://corsproxy.io/?" + url.QueryEscape(raw)
		}},
	}
}

// Fetcher downloads template files through an injectable ordered list of
// strategies, so deployments can swap or disable specific fallbacks.
type Fetcher struct {
	client     *http.Client
	strategies []Strategy
}

// NewFetcher builds a Fetcher. A nil client gets a 30s-timeout default;
// an empty strategy list gets DefaultStrategies.
func NewFetcher(client *http.Client, strategies []Strategy) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Fetcher{client: client, strategies: strategies}
}

// Fetch downloads the template at rawURL, walking the strategy chain in
// order until one succeeds. When every strategy fails the composed error
// embeds the first (direct) failure, since that is the one that tells
// the operator about the template link itself.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	busted := cacheBust(rawURL)

	var firstErr error
	for _, st := range f.strategies {
		body, err := f.fetchOnce(ctx, st.WrapURL(busted))
		if err == nil {
			return body, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		return nil, fmt.Errorf("no fetch strategies configured")
	}
	return nil, fmt.Errorf("failed to fetch template, check the link permissions; original error: %w", firstErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch failed: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// cacheBust appends a timestamp query parameter so intermediate caches
// and the proxy mirrors never serve a stale template.
func cacheBust(raw string) string {
	sep := "?"
	for _, r := range raw {
		if r == '?' {
			sep = "&"
			break
		}
	}
	return raw + sep + "t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
