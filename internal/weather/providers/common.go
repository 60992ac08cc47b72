package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Error taxonomy the ingest layer exposes to callers. Handlers map these to
// HTTP statuses at the request boundary.
var (
	// ErrUpstreamUnavailable covers transport errors, timeouts, open
	// circuits and non-2xx upstream responses.
	ErrUpstreamUnavailable = errors.New("upstream weather API unavailable")

	// ErrBadUpstreamData covers 2xx responses whose payload cannot be
	// decoded into the expected parallel-array shape.
	ErrBadUpstreamData = errors.New("unexpected upstream payload")
)

// RetryPolicy controls how often a failed upstream call is reattempted.
// MaxRetries 0 means a single attempt; that is the configured default, so
// the absence of retries is an explicit choice rather than an accident.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// doResilient executes the request through the circuit breaker, retrying
// with exponential backoff up to policy.MaxRetries. Every transport-level
// failure and non-2xx status comes back wrapped in ErrUpstreamUnavailable.
func doResilient(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	policy RetryPolicy,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errors.New("http client not configured")
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 500 * time.Millisecond
	}

	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, execErr)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open: %v", ErrUpstreamUnavailable, err)
		}

		if attempt >= policy.MaxRetries {
			return nil, err
		}

		delay := policy.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if policy.MaxInterval > 0 && delay > policy.MaxInterval {
			delay = policy.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
		case <-timer.C:
		}
		attempt++
	}
}
