package transport

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"video-orchestrator/pkg/errors"
)

// Statuses worth retrying; everything else passes through to the caller.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client is an HTTP client that retries transient failures with exponential
// backoff. Connection errors and 429/500/502/503/504 are retried, up to
// maxAttempts; other responses are returned as-is.
type Client struct {
	http        *http.Client
	maxAttempts int
	backoffBase float64
	maxBackoff  time.Duration
	sleep       func(time.Duration)
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http:        &http.Client{Timeout: timeout},
		maxAttempts: 10,
		backoffBase: 2.0,
		maxBackoff:  5 * time.Minute,
		sleep:       time.Sleep,
	}
}

// Do sends the request, replaying the body via GetBody on each retry.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(c.backoff(attempt))
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, errors.ErrTransport(err)
				}
				req.Body = body
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, errors.ErrTransport(req.Context().Err())
			}
			lastErr = err
			log.Printf("HTTP attempt %d failed: %v", attempt+1, err)
			continue
		}

		if retryStatuses[resp.StatusCode] {
			resp.Body.Close()
			lastErr = &statusError{code: resp.StatusCode}
			log.Printf("HTTP attempt %d got retryable status %d", attempt+1, resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, errors.ErrTransport(lastErr)
}

func (c *Client) backoff(attempt int) time.Duration {
	seconds := math.Pow(c.backoffBase, float64(attempt))
	delay := time.Duration(seconds * float64(time.Second))
	if delay > c.maxBackoff {
		delay = c.maxBackoff
	}
	return delay
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retryable status %d (%s)", e.code, http.StatusText(e.code))
}
