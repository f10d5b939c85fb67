package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/statmap/pkg/cache"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Client performs cached GET requests with retry.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCache stores response bodies in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		if c != nil {
			cl.cache = c
		}
		cl.ttl = ttl
	}
}

// WithKeyer replaces the key builder, e.g. with a scoped one.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.keyer = k }
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets the attempt count and the initial backoff.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient returns a client with no cache and 3 attempts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the body at rawURL, served from cache when present.
// namespace groups cache entries by upstream API.
func (c *Client) Get(ctx context.Context, namespace, rawURL string) ([]byte, error) {
	return c.get(ctx, namespace, rawURL, false)
}

// Refresh is Get that bypasses the cache read but still stores the result.
func (c *Client) Refresh(ctx context.Context, namespace, rawURL string) ([]byte, error) {
	return c.get(ctx, namespace, rawURL, true)
}

// GetJSON decodes the body at rawURL into v.
func (c *Client) GetJSON(ctx context.Context, namespace, rawURL string, v any) error {
	body, err := c.Get(ctx, namespace, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "decode response from %s", namespace)
	}
	return nil
}

func (c *Client) get(ctx context.Context, namespace, rawURL string, refresh bool) ([]byte, error) {
	key := c.keyer.HTTPKey(namespace, rawURL)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.do(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(body))
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request %s", u.Host))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read body"))
	}
	return body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found")
	case code >= 500:
		return Retryable(errors.New(errors.ErrCodeNetwork, "server error: status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}
