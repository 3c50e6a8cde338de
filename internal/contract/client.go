package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// ErrTransport marks failures below HTTP: DNS, TLS, timeouts, refused connections.
// Such failures fail the case and are never retried.
var ErrTransport = errors.New("transport error")

const (
	// APIKeyHeader is the header the pet store reads its static key from.
	APIKeyHeader = "api_key"
	// RequestIDHeader carries a per-request id so runs can be correlated with server logs.
	RequestIDHeader = "X-Request-Id"
)

// Request describes one call against the pet store, relative to the base URL.
type Request struct {
	Method string
	// Path is appended verbatim to the base URL, trailing slash included.
	Path  string
	Query url.Values
	// Body is sent as JSON when non-nil.
	Body any
	// Authenticated adds the api_key header with the client's key.
	Authenticated bool
}

func (r Request) String() string {
	target := r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}
	return r.Method + " " + target
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
	Duration   time.Duration
}

// Client sends contract requests to a pet store deployment.
type Client struct {
	baseURL      string
	http         *http.Client
	apiKey       string
	limiter      *rate.Limiter
	logger       *slog.Logger
	logRequests  bool
	logResponses bool
}

// Option customises the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithAPIKey sets the value sent in the api_key header of authenticated requests.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithRateLimit throttles requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBodyLogging logs request and/or response bodies at info level.
func WithBodyLogging(requests, responses bool) Option {
	return func(c *Client) {
		c.logRequests = requests
		c.logResponses = responses
	}
}

// NewClient builds a client for the pet store rooted at baseURL, e.g. https://petstore.swagger.io/v2.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute, got %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// NewClientFromConfig builds a client from a loaded Config.
func NewClientFromConfig(cfg *Config, logger *slog.Logger) (*Client, error) {
	return NewClient(cfg.BaseURL,
		WithTimeout(cfg.RequestTimeout),
		WithAPIKey(cfg.APIKey),
		WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		WithLogger(logger),
		WithBodyLogging(cfg.LogRequests, cfg.LogResponses),
	)
}

// BaseURL returns the root all request paths are appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends the request and reads the whole response. Any non-nil error wraps ErrTransport
// unless the request could not be built at all.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: waiting for rate limiter: %w", ErrTransport, err)
		}
	}

	req, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get(RequestIDHeader)
	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.String("request_id", requestID),
	}
	if c.logRequests && r.Body != nil {
		payload, _ := json.Marshal(r.Body)
		c.logger.LogAttrs(ctx, slog.LevelInfo, "request", append(attrs, slog.String("body", string(payload)))...)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		duration := time.Since(start)
		c.logger.LogAttrs(ctx, slog.LevelWarn, "request failed", append(attrs, slog.Duration("duration", duration), slog.String("error", err.Error()))...)
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, r, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %w", ErrTransport, r, err)
	}

	attrs = append(attrs, slog.Int("status", resp.StatusCode), slog.Duration("duration", duration))
	if c.logResponses {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "response", append(attrs, slog.String("body", string(body)))...)
	} else {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "response", attrs...)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		RequestID:  requestID,
		Duration:   duration,
	}, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, r Request) (*http.Request, error) {
	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding body of %s: %w", r, err)
		}
		body = bytes.NewReader(payload)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request %s: %w", r, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if r.Authenticated {
		// Set directly so the lowercase name reaches the wire unchanged.
		req.Header[APIKeyHeader] = []string{c.apiKey}
	}
	return req, nil
}
