// Package dontkillmyapp provides a client for the dontkillmyapp.com
// manufacturer API.
package dontkillmyapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dkma-cli/internal/model"
	"github.com/sells-group/dkma-cli/internal/resilience"
)

// DefaultBaseURL is the public v2 API root.
const DefaultBaseURL = "https://dontkillmyapp.com/api/v2/"

// DefaultTimeout bounds a single manufacturer request.
const DefaultTimeout = 10 * time.Second

const jsonMediaType = "application/json"

// Client defines the dontkillmyapp API operations.
type Client interface {
	// URL returns the document URL for a manufacturer identifier.
	URL(id string) string
	// Manufacturer fetches and classifies the document for one identifier.
	// It never returns nil.
	Manufacturer(ctx context.Context, id string) Outcome
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new dontkillmyapp API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if !strings.HasSuffix(c.baseURL, "/") {
		c.baseURL += "/"
	}
	return c
}

func (c *httpClient) URL(id string) string {
	return c.baseURL + id + ".json"
}

func (c *httpClient) Manufacturer(ctx context.Context, id string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = &UnexpectedError{Err: eris.Errorf("dontkillmyapp: panic fetching %s: %v", id, r)}
		}
	}()

	reqURL := c.URL(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{Err: eris.Wrap(err, "dontkillmyapp: create request")}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: eris.Wrap(err, "dontkillmyapp: request failed")}
	}
	defer resp.Body.Close() //nolint:errcheck

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode == http.StatusNotFound {
		return &NotFound{StatusCode: resp.StatusCode, ContentType: contentType}
	}

	if resilience.IsFailureStatus(resp.StatusCode) {
		return &TransportError{
			Err:        resilience.NewStatusError(resp.StatusCode, reqURL),
			StatusCode: resp.StatusCode,
		}
	}

	if !strings.Contains(strings.ToLower(contentType), jsonMediaType) {
		return &NonJSONResponse{StatusCode: resp.StatusCode, ContentType: contentType}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{
			Err:        eris.Wrap(err, "dontkillmyapp: read response body"),
			StatusCode: resp.StatusCode,
		}
	}

	if !utf8.Valid(body) {
		return &DecodeError{Err: eris.Errorf("dontkillmyapp: response for %s is not valid UTF-8", id)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &UnexpectedError{Err: eris.Errorf("dontkillmyapp: response for %s is not a JSON object", id)}
		}
		return &DecodeError{Err: eris.Wrap(err, "dontkillmyapp: decode response")}
	}
	if fields == nil {
		return &UnexpectedError{Err: eris.Errorf("dontkillmyapp: response for %s is null", id)}
	}

	return &Success{Record: model.NewRecord(id, fields)}
}
