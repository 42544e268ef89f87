package endpoint

import (
	"context"
	"encoding/base64"

	domain "github.com/oshokin/komga-settings/internal/domain/komga"
	"github.com/oshokin/komga-settings/internal/logger"
)

// APIPath is appended to the server URL to form the API base URL.
const APIPath = "/api/v1"

// CredentialsReader is the part of the credential repository the resolver reads from.
type CredentialsReader interface {
	Get(ctx context.Context) (*domain.Credentials, error)
}

// Resolver computes an Endpoint from the currently stored credentials.
// Nothing is cached: every call reads the repository again.
type Resolver struct {
	// store provides the credentials.
	store CredentialsReader
}

// NewResolver creates a resolver reading from the provided store.
func NewResolver(store CredentialsReader) *Resolver {
	return &Resolver{
		store: store,
	}
}

// Resolve returns the endpoint for the stored credentials.
// It never fails: incomplete or unreadable credentials yield an unresolved Endpoint.
func (r *Resolver) Resolve(ctx context.Context) domain.Endpoint {
	if r == nil || r.store == nil {
		return domain.Endpoint{}
	}

	credentials, err := r.store.Get(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Unable to read stored credentials", "error", err)
		return domain.Endpoint{}
	}

	return FromCredentials(credentials)
}

// FromCredentials derives the endpoint from credentials without touching storage.
// The server URL is used verbatim; malformed values surface later as connection failures.
func FromCredentials(credentials *domain.Credentials) domain.Endpoint {
	if !credentials.IsComplete() {
		return domain.Endpoint{}
	}

	return domain.Endpoint{
		BaseAPIURL:    domain.String(*credentials.ServerURL + APIPath),
		Authorization: domain.String(BasicAuthorization(*credentials.ServerUsername, *credentials.ServerPassword)),
	}
}

// BasicAuthorization renders an HTTP basic authentication header value.
func BasicAuthorization(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
