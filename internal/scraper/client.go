// internal/scraper/client.go
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/valpere/ScrapeCache/internal/utils"
)

// Fetcher retrieves the raw markup at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// ClientConfig defines configuration options for the HTTP fetcher
type ClientConfig struct {
	Timeout    time.Duration
	UserAgents []string
	Headers    map[string]string
	RateLimit  float64 // requests per second, <= 0 disables
	RateBurst  int
	// ProxyURL, when set, is a prefix the escaped target URL is appended
	// to, e.g. "https://relay.example/?url=".
	ProxyURL string
}

// HTTPFetcher fetches pages over HTTP. It never retries: a failed fetch is
// reported to the caller as *FetchError.
type HTTPFetcher struct {
	client     *resty.Client
	limiter    *utils.RateLimiter
	userAgents []string
	currentUA  int
	uaMutex    sync.Mutex
	proxyURL   string
}

// NewHTTPFetcher creates a fetcher with the specified configuration.
func NewHTTPFetcher(config ClientConfig) *HTTPFetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if len(config.UserAgents) == 0 {
		config.UserAgents = getDefaultUserAgents()
	}

	client := resty.New().
		SetTimeout(config.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")
	for k, v := range config.Headers {
		client.SetHeader(k, v)
	}

	return &HTTPFetcher{
		client:     client,
		limiter:    utils.NewRateLimiter(config.RateLimit, config.RateBurst),
		userAgents: config.UserAgents,
		proxyURL:   config.ProxyURL,
	}
}

// Fetch performs one GET request. Transport failures and non-2xx statuses
// are returned as *FetchError carrying the original target URL.
func (c *HTTPFetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	if _, err := url.ParseRequestURI(target); err != nil {
		return nil, &FetchError{URL: target, Err: fmt.Errorf("invalid URL: %w", err)}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: target, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", c.nextUserAgent()).
		Get(c.requestURL(target))
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	if resp.IsError() {
		return nil, &FetchError{
			URL:        target,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("%s", resp.Status()),
		}
	}
	return resp.Body(), nil
}

// requestURL routes target through the proxy prefix when one is configured.
func (c *HTTPFetcher) requestURL(target string) string {
	if c.proxyURL == "" {
		return target
	}
	return c.proxyURL + url.QueryEscape(target)
}

// nextUserAgent returns the next user agent in rotation
func (c *HTTPFetcher) nextUserAgent() string {
	c.uaMutex.Lock()
	defer c.uaMutex.Unlock()

	ua := c.userAgents[c.currentUA]
	c.currentUA = (c.currentUA + 1) % len(c.userAgents)
	return ua
}

// getDefaultUserAgents returns a set of realistic user agent strings
func getDefaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	}
}
