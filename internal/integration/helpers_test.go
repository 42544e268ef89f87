package integration

import (
	"encoding/base64"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeKomga is a minimal Komga API answering the libraries list for one account.
type fakeKomga struct {
	*httptest.Server

	// username and password are the accepted basic credentials.
	username, password string
	// status overrides the answer for authorized requests when non-zero.
	status atomic.Int32
	// hits counts requests to the libraries endpoint.
	hits atomic.Int32
}

// newFakeKomga starts a fake Komga server and closes it with the test.
func newFakeKomga(t *testing.T, username, password string) *fakeKomga {
	t.Helper()

	k := &fakeKomga{
		username: username,
		password: password,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/libraries/", k.libraries)

	k.Server = httptest.NewServer(mux)
	t.Cleanup(k.Close)

	return k
}

// libraries checks basic authentication and answers with an empty list.
func (k *fakeKomga) libraries(w http.ResponseWriter, r *http.Request) {
	k.hits.Add(1)

	encoded, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Basic ")
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || string(decoded) != k.username+":"+k.password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if status := k.status.Load(); status != 0 {
		w.WriteHeader(int(status))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte("[]"))
}

// reservePort returns a free local TCP address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}
