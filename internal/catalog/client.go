package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/VAlejandro22/ecommerce-iq/internal/platform/retry"
)

const (
	collectionsPath = "/api/colecciones"
	designsPath     = "/api/disenos"
	maxErrorBody    = 2048
)

// ErrNotFound reports a single resource the CMS does not know about.
var ErrNotFound = errors.New("catalog: not found")

// HTTPError is returned when the CMS answers with a non-success status.
type HTTPError struct {
	Status int
	URL    string
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog: %d %s fetching %s", e.Status, http.StatusText(e.Status), e.URL)
	}
	return fmt.Sprintf("catalog: %d %s fetching %s: %s", e.Status, http.StatusText(e.Status), e.URL, e.Body)
}

// StatusCode exposes the HTTP status to the retry policy.
func (e *HTTPError) StatusCode() int { return e.Status }

// Is makes a 404 match ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client performs authenticated, retried GETs against the CMS REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	policy  retry.Policy
	metrics *gatewayMetrics
	logger  *zap.Logger
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client. Its transport is used as-is.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p retry.Policy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithClientLogger sets the logger used to report retried attempts.
func WithClientLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMeter records gateway metrics on meter instead of the global provider.
func WithMeter(meter metric.Meter) ClientOption {
	return func(c *Client) {
		c.metrics = newGatewayMetrics(meter)
	}
}

// NewClient constructs a CMS client for baseURL using token as bearer credential.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		policy: retry.DefaultPolicy(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newGatewayMetrics(nil)
	}
	return c
}

// get fetches path with query and decodes the JSON body into out. Transient failures are retried
// according to the client policy.
func (c *Client) get(ctx context.Context, resource, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	policy := c.policy
	userNotify := policy.OnRetry
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.logger.Debug("catalog: retrying request",
			zap.String("resource", resource),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if userNotify != nil {
			userNotify(attempt, err, wait)
		}
	}

	start := time.Now()
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		return c.attempt(ctx, resource, endpoint, out)
	})
	c.metrics.recordLatency(ctx, resource, time.Since(start), err)
	return err
}

func (c *Client) attempt(ctx context.Context, resource, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.recordAttempt(ctx, resource, 0)
		return err
	}
	defer resp.Body.Close()
	c.metrics.recordAttempt(ctx, resource, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode, URL: endpoint, Body: drainError(resp.Body)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", resource, err)
	}
	return nil
}

func drainError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
