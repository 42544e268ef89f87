package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/komga-settings/internal/version"
)

// TestDispatch_SendsHeadersOnce verifies headers, cache bypass and a single attempt.
func TestDispatch_SendsHeadersOnce(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.Header.Get("Authorization") != "Basic abc" ||
			r.Header.Get("Cache-Control") != "no-cache, no-store" ||
			r.Header.Get("Pragma") != "no-cache" ||
			r.Header.Get("User-Agent") != version.UserAgent() ||
			r.Method != http.MethodGet {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(WithCallTimeout(time.Second))

	response, err := client.Dispatch(context.Background(), &Request{
		URL:     server.URL + "/api/v1/libraries/",
		Header:  http.Header{"Authorization": {"Basic abc"}},
		NoCache: true,
	})

	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, response.StatusCode)
	require.Equal(t, int32(1), hits.Load())
}

// TestDispatch_Timeout ensures the call timeout bounds slow servers.
func TestDispatch_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	client := New(WithCallTimeout(50 * time.Millisecond))

	_, err := client.Dispatch(context.Background(), &Request{URL: server.URL})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestDispatch_InvalidRequests covers malformed URLs and nil requests.
func TestDispatch_InvalidRequests(t *testing.T) {
	t.Parallel()

	client := New()

	_, err := client.Dispatch(context.Background(), nil)
	require.ErrorIs(t, err, errRequestRequired)

	_, err = client.Dispatch(context.Background(), &Request{URL: "http://[::1"})
	require.Error(t, err)

	_, err = client.Dispatch(context.Background(), &Request{URL: "not-a-url/api/v1/libraries/"})
	require.Error(t, err)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	_, ok := ctx.Deadline()
	require.False(t, ok)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestOptions_IgnoreZeroValues ensures options keep defaults on zero input.
func TestOptions_IgnoreZeroValues(t *testing.T) {
	t.Parallel()

	c := New(WithCallTimeout(0), WithHTTPClient(nil))
	require.NotNil(t, c.httpClient)
	require.Positive(t, c.callTimeout)
}
