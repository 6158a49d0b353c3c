// Package registry fetches swarm protocol documents from an HTTP catalog
// service: a protocol referenced by name or URL rather than embedded
// inline in a CLI invocation.
//
// Grounded on pkg/httputil/{retry,cache}.go and pkg/integrations/client.go:
// the teacher's per-ecosystem registry clients (pypi, npm, crates, maven,
// ...) all share one shape — a base client plus retry plus a file cache —
// collapsed here into a single client, since a swarm protocol has exactly
// one "ecosystem" (its own JSON shape), not nine.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/swarmcheck/pkg/cache"
	swarmerrors "github.com/matzehuels/swarmcheck/pkg/errors"
)

// Client fetches protocol documents over HTTP, caching responses and
// retrying transient failures.
type Client struct {
	http  *http.Client
	base  string
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCache attaches a response cache; without one, every Fetch hits the
// network.
func WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.keyer = keyer
		cl.ttl = ttl
	}
}

// WithHTTPClient overrides the underlying *http.Client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.http = h }
}

// New creates a Client rooted at baseURL (the catalog service's address).
func New(baseURL string, opts ...Option) *Client {
	cl := &Client{http: &http.Client{Timeout: 10 * time.Second}, base: baseURL}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// FetchProtocol retrieves the raw protocol JSON for name, consulting the
// cache first if one is configured, and retrying transient HTTP failures
// with exponential backoff.
func (c *Client) FetchProtocol(ctx context.Context, name string) (string, error) {
	return c.fetch(ctx, "/protocols/"+name)
}

// FetchSubscriptions retrieves the raw subscriptions JSON for name.
func (c *Client) FetchSubscriptions(ctx context.Context, name string) (string, error) {
	return c.fetch(ctx, "/subscriptions/"+name)
}

func (c *Client) fetch(ctx context.Context, path string) (string, error) {
	key := ""
	if c.cache != nil {
		key = c.keyer.SwarmKey(path, "")
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return string(data), nil
		}
	}

	var body []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		resp, err := c.get(ctx, path)
		if err != nil {
			return cache.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return cache.Retryable(&swarmerrors.RateLimitedError{})
		}
		if resp.StatusCode >= 500 {
			return cache.Retryable(swarmerrors.New(swarmerrors.ErrCodeRegistryUnreachable, "server error: %d", resp.StatusCode))
		}
		if resp.StatusCode == http.StatusNotFound {
			return swarmerrors.New(swarmerrors.ErrCodeProtocolNotFound, "not found: %s", path)
		}
		if resp.StatusCode != http.StatusOK {
			return swarmerrors.New(swarmerrors.ErrCodeRegistryUnreachable, "unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, body, c.ttl)
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.http.Do(req)
}
