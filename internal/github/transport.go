package github

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/scytale/pr-compliance/cmd"
)

// ErrRateLimitExhausted indicates the rate limit window never advanced even
// after waiting for the advertised reset time.
var ErrRateLimitExhausted = errors.New("github rate limit window did not advance")

// HTTPError reports a non-retryable API failure with its status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("github api returned status %d for %s", e.StatusCode, e.URL)
}

// TransportConfig configures rate limit handling and transient-failure retries
type TransportConfig struct {
	// MaxRateLimitWaits bounds how many rate limit cooldowns a single request
	// may sit through before failing loud
	MaxRateLimitWaits int
	// MaxRetries is the total number of attempts for transient network failures
	MaxRetries int
	// RetryBaseDelay is the initial backoff duration
	RetryBaseDelay time.Duration
	// RetryMaxDelay caps the backoff duration
	RetryMaxDelay time.Duration
}

// DefaultTransportConfig returns the default transport configuration
func DefaultTransportConfig() *TransportConfig {
	return &TransportConfig{
		MaxRateLimitWaits: 2,
		MaxRetries:        5,
		RetryBaseDelay:    4 * time.Second,
		RetryMaxDelay:     10 * time.Second,
	}
}

// TransportConfigFrom maps the pipeline configuration onto a TransportConfig
func TransportConfigFrom(config *cmd.Config) *TransportConfig {
	cfg := DefaultTransportConfig()
	if config.RateLimitMaxWaits > 0 {
		cfg.MaxRateLimitWaits = config.RateLimitMaxWaits
	}
	if config.MaxRetries > 0 {
		cfg.MaxRetries = config.MaxRetries
	}
	if config.RetryBaseSeconds > 0 {
		cfg.RetryBaseDelay = time.Duration(config.RetryBaseSeconds) * time.Second
	}
	if config.RetryMaxSeconds > 0 {
		cfg.RetryMaxDelay = time.Duration(config.RetryMaxSeconds) * time.Second
	}
	return cfg
}

// rateLimitState tracks the remote quota as reported by response headers
type rateLimitState struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time
}

func (s *rateLimitState) update(remaining int, resetAt time.Time) {
	s.mu.Lock()
	s.remaining = remaining
	s.resetAt = resetAt
	s.mu.Unlock()
}

// rateLimitTransport suspends and replays requests when the remote quota is
// exhausted. The wait-and-replay cycle is a bounded loop: if the server keeps
// reporting zero remaining quota after MaxRateLimitWaits cooldowns, the
// request fails with ErrRateLimitExhausted instead of spinning forever.
type rateLimitTransport struct {
	base     http.RoundTripper
	state    *rateLimitState
	maxWaits int
}

func newRateLimitTransport(base http.RoundTripper, cfg *TransportConfig) http.RoundTripper {
	if cfg == nil {
		cfg = DefaultTransportConfig()
	}
	return &rateLimitTransport{
		base:     base,
		state:    &rateLimitState{},
		maxWaits: cfg.MaxRateLimitWaits,
	}
}

// RoundTrip implements http.RoundTripper with rate limit handling
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for waits := 0; ; waits++ {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		remaining, resetAt, ok := parseRateLimitHeaders(resp)
		if ok {
			t.state.update(remaining, resetAt)
		}
		if !ok || remaining > 0 {
			return resp, nil
		}

		if waits >= t.maxWaits {
			resp.Body.Close()
			return nil, fmt.Errorf("quota still zero after %d cooldowns: %w", t.maxWaits, ErrRateLimitExhausted)
		}

		// Sleep until one second past the advertised reset, then replay
		wait := time.Until(resetAt) + time.Second
		if wait < time.Second {
			wait = time.Second
		}
		slog.Warn("GitHub rate limit reached, waiting for reset", "url", req.URL.Path, "reset_at", resetAt, "wait", wait)
		resp.Body.Close()

		select {
		case <-time.After(wait):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}

		req = req.Clone(req.Context())
	}
}

// parseRateLimitHeaders reads the quota headers from a response. ok is false
// when the response carries no rate limit information.
func parseRateLimitHeaders(resp *http.Response) (remaining int, resetAt time.Time, ok bool) {
	rem := resp.Header.Get("X-RateLimit-Remaining")
	if rem == "" {
		return 0, time.Time{}, false
	}
	remaining, err := strconv.Atoi(rem)
	if err != nil {
		return 0, time.Time{}, false
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if sec, err := strconv.ParseInt(reset, 10, 64); err == nil {
			resetAt = time.Unix(sec, 0)
		}
	}
	return remaining, resetAt, true
}

// retryTransport retries connection-level failures with exponential backoff.
// HTTP status errors pass through untouched; they are the caller's problem.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func newRetryTransport(base http.RoundTripper, cfg *TransportConfig) http.RoundTripper {
	if cfg == nil {
		cfg = DefaultTransportConfig()
	}
	return &retryTransport{
		base:       base,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.RetryBaseDelay,
		maxDelay:   cfg.RetryMaxDelay,
	}
}

// RoundTrip implements http.RoundTripper with retry logic
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(t.backoff(attempt)):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		resp, err := t.base.RoundTrip(req.Clone(req.Context()))
		if err == nil {
			return resp, nil
		}

		// Rate limit exhaustion and cancellation are not transient
		if errors.Is(err, ErrRateLimitExhausted) || req.Context().Err() != nil {
			return nil, err
		}

		lastErr = err
		slog.Warn("Transient network error, retrying", "url", req.URL.Path, "attempt", attempt+1, "max_attempts", t.maxRetries, "error", err)
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", t.maxRetries, lastErr)
}

// backoff returns the delay before the given attempt, doubling from the base
// delay up to the cap, with jitter to avoid thundering herd
func (t *retryTransport) backoff(attempt int) time.Duration {
	delay := t.baseDelay << (attempt - 1)
	if delay > t.maxDelay {
		delay = t.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay - jitter
}
