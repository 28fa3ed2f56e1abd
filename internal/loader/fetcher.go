package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"surveyrank/internal/config"
	"surveyrank/internal/logger"
)

const userAgent = "surveyrank/1.0"

// Fetcher downloads survey exports with config-driven retry logic.
type Fetcher struct {
	client      *http.Client
	retryPolicy config.RetryPolicy
	log         *logger.Logger
}

// NewFetcher creates a fetcher with the default retry policy.
func NewFetcher() *Fetcher {
	return NewFetcherWithConfig(config.DefaultRetryPolicy(), nil)
}

// NewFetcherWithConfig creates a fetcher with a custom retry policy.
func NewFetcherWithConfig(retryPolicy config.RetryPolicy, log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Discard()
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy: retryPolicy,
		log:         log,
	}
}

// Fetch returns the body of url. Transport errors and retryable statuses
// are retried with exponential backoff until the policy is exhausted.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	attempts := max(f.retryPolicy.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		body, retry, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, attempts, err)

		if !retry || attempt == attempts {
			break
		}

		delay := f.retryPolicy.GetRetryDelay(attempt + 1)
		f.log.Warn("Fetch failed, retrying", "url", url, "attempt", attempt, "delay", delay, "error", err)

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	limit := f.retryPolicy.BodyLimit()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > limit {
		return nil, false, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}

	return body, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableStatus reports whether a status is a temporary failure.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
