package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// MaxBodySize caps the size of a fetched document.
const MaxBodySize = 64 << 20

// acceptHeader prefers Presentation 3 JSON-LD and falls back to plain JSON.
const acceptHeader = `application/ld+json;profile="http://iiif.io/api/presentation/3/context.json", application/json;q=0.9`

// Config holds fetcher configuration.
type Config struct {
	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int

	// Timeout bounds a single request.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Token is an optional bearer token.
	Token string

	// Client overrides the base HTTP client.
	Client *http.Client
}

// Fetcher is the JSON-over-HTTP loader.
// Requests are rate limited and pass through a circuit breaker so that an
// unreachable host fails fast instead of stalling every load.
type Fetcher struct {
	client    *http.Client
	limiter   *RateLimiter
	breaker   *gobreaker.CircuitBreaker
	userAgent string
}

// New creates an HTTP fetcher.
func New(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := &http.Client{}
	if cfg.Client != nil {
		clone := *cfg.Client
		base = &clone
	}

	client := base
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client = oauth2.NewClient(ctx, ts)
	}
	client.Timeout = timeout

	return &Fetcher{
		client:    client,
		limiter:   NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		breaker:   newBreaker("iiif-loader"),
		userAgent: cfg.UserAgent,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		// Missing or forbidden documents say nothing about the host's health.
		IsSuccessful: func(err error) bool {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return httpErr.IsClientError()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("fetch: circuit %s %s -> %s", name, from, to)
		},
	})
}

// Fetch retrieves the document at uri. Any status other than 200 is
// returned as *HTTPError.
func (f *Fetcher) Fetch(ctx context.Context, uri string, opts driven.FetchOptions) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.do(ctx, uri, opts)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (f *Fetcher) do(ctx context.Context, uri string, opts driven.FetchOptions) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	logger.Debug("fetch: GET %s", uri)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			f.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: uri}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// State returns the circuit breaker state.
func (f *Fetcher) State() gobreaker.State {
	return f.breaker.State()
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		return time.Until(at)
	}
	return 0
}
