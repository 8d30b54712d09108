// Package pipeline ties acquisition together: a polite HTTP fetcher and
// the orchestration that turns scraped reports into dataset rows.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carbonlens/scope3scan/internal/cache"
	"github.com/carbonlens/scope3scan/internal/model"
	"github.com/carbonlens/scope3scan/internal/util"
	"github.com/carbonlens/scope3scan/internal/worker"
)

// fetchSleepFunc is swapped out in tests to avoid real backoff sleeps.
var fetchSleepFunc = time.Sleep

// Fetcher downloads pages and PDFs with retries, optional caching, and
// per-domain politeness.
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBytes    int64
	maxRetries  int
	store       cache.Cache
	cacheTTL    time.Duration
	robots      *util.RobotsChecker
	limiter     *worker.Limiter
	politeDelay time.Duration
}

// NewFetcher creates a fetcher from the HTTP configuration. Caching and
// politeness are off until enabled with SetCache and SetPoliteness.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: maxRetries,
	}
}

// SetCache enables response caching with the given TTL.
func (f *Fetcher) SetCache(store cache.Cache, ttl time.Duration) {
	f.store = store
	f.cacheTTL = ttl
}

// SetPoliteness enables robots.txt checks, per-domain rate limiting, and
// a fixed delay after each rate-limit clearance.
func (f *Fetcher) SetPoliteness(robots *util.RobotsChecker, limiter *worker.Limiter, delay time.Duration) {
	f.robots = robots
	f.limiter = limiter
	f.politeDelay = delay
}

// FetchResult is one downloaded response.
type FetchResult struct {
	Body        []byte
	ContentType string
	StatusCode  int
	FinalURL    string
	FromCache   bool
}

// HTML returns the body as a string for HTML consumers.
func (r *FetchResult) HTML() string { return string(r.Body) }

// Fetch retrieves a URL once, without retries. Cached responses are
// served without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.store != nil {
		if data, found := f.store.Get(cache.Key(rawURL)); found {
			return &FetchResult{
				Body:       data,
				StatusCode: http.StatusOK,
				FinalURL:   rawURL,
				FromCache:  true,
			}, nil
		}
	}

	if f.robots != nil && !f.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("blocked by robots.txt: %s", rawURL)
	}
	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, f.politeDelay); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.store != nil {
		_ = f.store.Set(cache.Key(rawURL), body, f.cacheTTL)
	}

	return &FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff.
// Rate-limit responses (429) and server errors are transient; client
// errors are not.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(time.Duration(1<<uint(attempt-1)) * time.Second)
		}
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if idx := strings.Index(msg, "unexpected status: "); idx >= 0 {
		rest := msg[idx+len("unexpected status: "):]
		if len(rest) >= 3 {
			if code, convErr := strconv.Atoi(rest[:3]); convErr == nil {
				return code == http.StatusTooManyRequests || code >= 500
			}
		}
		return false
	}

	// Network-level failures surface with the "fetch:" prefix.
	return strings.HasPrefix(msg, "fetch:")
}
