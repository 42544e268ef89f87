package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/komga-settings/internal/config"
	"github.com/oshokin/komga-settings/internal/version"
)

// Request describes a request to dispatch.
type Request struct {
	// Method is the HTTP method; GET when empty.
	Method string
	// URL is the absolute request URL, used as is.
	URL string
	// Header holds additional request headers.
	Header http.Header
	// NoCache asks intermediaries not to serve or store the response.
	NoCache bool
}

// Response carries what a probe needs from an HTTP response.
// The body has already been drained and closed.
type Response struct {
	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int
	// Status is the status line text, e.g. "200 OK".
	Status string
}

// Client dispatches requests with a bounded timeout and exactly one attempt.
type Client struct {
	// httpClient performs the network round trip.
	httpClient *http.Client

	// callTimeout is the default timeout for individual calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for dispatched calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, e.g. with one from httptest.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// maxDrainBytes caps how much of a response body is read before closing it.
const maxDrainBytes = 64 << 10

// errRequestRequired is returned when Dispatch gets a nil request.
var errRequestRequired = errors.New("request must be provided")

// New creates a client with the default timeout and a transport without keep-alives.
func New(opts ...Option) *Client {
	//nolint:forcetypeassert // http.DefaultTransport is always *http.Transport.
	roundTripper := http.DefaultTransport.(*http.Transport).Clone()
	roundTripper.DisableKeepAlives = true

	client := &Client{
		httpClient: &http.Client{
			Transport: roundTripper,
		},
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Dispatch sends the request once and returns its status.
// Errors cover request construction, network failures and timeouts alike.
func (c *Client) Dispatch(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, errRequestRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	method := request.Method
	if method == "" {
		method = http.MethodGet
	}

	httpRequest, err := http.NewRequestWithContext(callCtx, method, request.URL, http.NoBody)
	if err != nil {
		return nil, err
	}

	httpRequest.Header.Set("User-Agent", version.UserAgent())

	for key, values := range request.Header {
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}

	if request.NoCache {
		httpRequest.Header.Set("Cache-Control", "no-cache, no-store")
		httpRequest.Header.Set("Pragma", "no-cache")
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = httpResponse.Body.Close()
	}()

	// The status is all that matters; a truncated body does not change it.
	_, _ = io.Copy(io.Discard, io.LimitReader(httpResponse.Body, maxDrainBytes))

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Status:     httpResponse.Status,
	}, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
