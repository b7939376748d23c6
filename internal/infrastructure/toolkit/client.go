// Package toolkit is the HTTP client for the cheminformatics sidecar that
// parses and embeds molecules, computes MMFF94 charges and runs the kallisto
// EEQ and polarizability models.  Client implements both molecule.Toolkit and
// kallisto.Solver.
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

const Version = "0.1.0"

// Client talks to the toolkit sidecar over JSON/HTTP.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       logging.Logger
	metrics      *prometheus.AppMetrics
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError is an error response from the sidecar.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toolkit: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

// IsClientError reports a 4xx response, which is never retried.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a sidecar client for baseURL.  apiKey may be empty when
// the sidecar runs without authentication.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.InvalidParam("toolkit base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid toolkit base URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.InvalidParam("toolkit base URL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    "jazzy-go/" + Version,
		logger:       logging.NewNopLogger(),
		retryMax:     3,
		retryWaitMin: 200 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("toolkit")
	return c, nil
}

// post performs a JSON POST with retries.  endpoint labels metrics.
func (c *Client) post(ctx context.Context, endpoint, path string, body, result interface{}) error {
	return classify(endpoint, c.do(ctx, endpoint, http.MethodPost, path, body, result))
}

// classify marks failures that say nothing about the input (transport
// errors, 5xx and 429 answers, unreadable bodies) as CodeToolkitUnavailable.
// Other 4xx answers and context errors are returned unchanged.
func classify(endpoint string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() && apiErr.StatusCode != http.StatusTooManyRequests {
		return err
	}
	return errors.Wrap(err, errors.CodeToolkitUnavailable, "chemistry toolkit unavailable").
		WithDetail("endpoint=" + endpoint)
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body, result interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			prometheus.RecordToolkitRetry(c.metrics, endpoint)
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("retrying toolkit call",
				logging.String("endpoint", endpoint), logging.Int("attempt", attempt), logging.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		requestID := logging.RequestIDFrom(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			prometheus.RecordToolkitCall(c.metrics, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("toolkit request failed", logging.String("endpoint", endpoint), logging.Err(err))
			lastErr = err
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		prometheus.RecordToolkitCall(c.metrics, endpoint, resp.StatusCode, time.Since(start))
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		c.logger.Debug("toolkit call",
			logging.String("endpoint", endpoint), logging.Int("status", resp.StatusCode), logging.Duration("elapsed", time.Since(start)))

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			lastErr = newAPIError(resp.StatusCode, requestID, respBody)
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := newAPIError(resp.StatusCode, requestID, respBody)
			if apiErr.IsServerError() {
				lastErr = apiErr
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

func newAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		return apiErr
	}
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Message
	} else {
		apiErr.Message = string(body)
	}
	return apiErr
}

// calculateBackoff returns retryWaitMin·2^(attempt-1), capped at
// retryWaitMax, plus up to 25% jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax || backoff <= 0 {
		backoff = c.retryWaitMax
	}
	if q := int64(backoff / 4); q > 0 {
		backoff += time.Duration(rand.Int63n(q))
	}
	return backoff
}

// Ping checks that the sidecar is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/healthz", nil, nil)
}

//Personal.AI order the ending
