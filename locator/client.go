package locator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "go-witness-sdk"
	maxResponseSize  = 4 << 20
)

// Option configures an HTTP locator.
type Option func(*options)

type options struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// WithHTTPClient sets the client used for lookups.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithBaseURL replaces the API endpoint, for mirrors and tests.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header. GitHub and Reddit reject requests without one.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// client is the HTTP client shared by the lookup adapters.
type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func newClient(defaultBaseURL string, opts ...Option) *client {
	o := &options{baseURL: defaultBaseURL, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		o.client = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &client{httpClient: o.client, baseURL: o.baseURL, userAgent: o.userAgent}
}

// getJSON fetches u and decodes a 200 response into v.
func (c *client) getJSON(ctx context.Context, u string, header http.Header, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	for k, values := range header {
		for _, value := range values {
			req.Header.Add(k, value)
		}
	}
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", req.URL.Host)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s returned non-200 status: %s", req.URL.Host, resp.Status)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %s response", req.URL.Host)
	}

	return nil
}

// splitPost splits "statement{delimiter}signature" text. Anything after a
// second delimiter is ignored. ok is false when the delimiter is missing.
func splitPost(text, delimiter string) (Evidence, bool) {
	if delimiter == "" {
		return Evidence{}, false
	}
	parts := strings.Split(text, delimiter)
	if len(parts) < 2 {
		return Evidence{}, false
	}
	return Evidence{Statement: parts[0], Signature: parts[1]}, true
}
