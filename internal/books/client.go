package books

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"github.com/five82/folio/internal/logger"
	"github.com/five82/folio/internal/metrics"
)

// Searcher runs a single book search. *Client implements it; the UI depends
// on the interface so tests can substitute canned results.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Book, error)
}

// Ensure Client implements Searcher at compile time.
var _ Searcher = (*Client)(nil)

// ErrUnexpectedStatus is wrapped by StatusError for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError reports a non-success HTTP status from the provider.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.URL, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// DefaultEndpoint is the Google Books volumes search endpoint.
const DefaultEndpoint = "https://www.googleapis.com/books/v1/volumes"

const defaultUserAgent = "folio/0.1"

// Client talks to a volumes-style book search API.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	timeout   time.Duration
	log       *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client is never
// modified; WithTimeout applies to a copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a Client for endpoint, falling back to DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  u,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// Endpoint returns the normalized search endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Search issues one GET with query as the sole "q" parameter. A response
// without items yields an empty slice and a nil error.
func (c *Client) Search(ctx context.Context, query string) ([]Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	query = NormalizeQuery(query)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	log := c.log.For(ctx)
	defer c.log.Track(ctx, "search")()
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	values := url.Values{}
	values.Set("q", query)
	reqURL := *c.endpoint
	reqURL.RawQuery = values.Encode()

	var payload VolumesResponse
	if err := c.get(ctx, &reqURL, &payload); err != nil {
		log.Error().Err(err).Str("query", query).Msg("search failed")
		return nil, err
	}
	found := payload.Books()
	log.Debug().Str("query", query).Int("items", len(found)).Int("total", payload.TotalItems).Msg("search finished")
	return found, nil
}

func (c *Client) get(ctx context.Context, u *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: c.endpoint.String()}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// NormalizeQuery puts the query in Unicode NFC form so composed and
// decomposed input produce the same request. Whitespace is sent as typed.
func NormalizeQuery(query string) string {
	return norm.NFC.String(query)
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
