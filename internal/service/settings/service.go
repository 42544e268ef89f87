package settings

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/oshokin/komga-settings/internal/domain/komga"
	"github.com/oshokin/komga-settings/internal/logger"
	repo "github.com/oshokin/komga-settings/internal/repository/credentials"
)

// Tester runs a connectivity check against the stored settings.
type Tester interface {
	TestConnection(ctx context.Context) string
}

// Service binds the settings actions to the credential repository and the prober.
type Service struct {
	// store persists the credentials.
	store repo.Repository
	// tester checks the stored credentials on demand.
	tester Tester
}

// errStoreRequired is returned when the service has no repository.
var errStoreRequired = errors.New("credential store must be provided")

// NewService creates a settings service.
func NewService(store repo.Repository, tester Tester) *Service {
	return &Service{
		store:  store,
		tester: tester,
	}
}

// Current returns the stored credentials; unset fields stay nil.
func (s *Service) Current(ctx context.Context) (*domain.Credentials, error) {
	if s.store == nil {
		return nil, errStoreRequired
	}

	credentials, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	return credentials, nil
}

// Submit replaces the stored credentials with the given ones, as is.
func (s *Service) Submit(ctx context.Context, credentials *domain.Credentials) error {
	if s.store == nil {
		return errStoreRequired
	}

	if err := s.store.Set(ctx, credentials.Clone()); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	logger.InfoKV(
		ctx,
		"Server settings saved",
		"server_url_set", credentials != nil && credentials.ServerURL != nil,
		"username_set", credentials != nil && credentials.ServerUsername != nil,
		"password_set", credentials != nil && credentials.ServerPassword != nil,
	)

	return nil
}

// Reset clears every stored field.
func (s *Service) Reset(ctx context.Context) error {
	if s.store == nil {
		return errStoreRequired
	}

	if err := s.store.Set(ctx, new(domain.Credentials)); err != nil {
		return fmt.Errorf("reset credentials: %w", err)
	}

	logger.Info(ctx, "Server settings reset to default")

	return nil
}

// TrySettings checks the stored settings and returns the diagnostic to display.
func (s *Service) TrySettings(ctx context.Context) string {
	if s.tester == nil {
		return ""
	}

	return s.tester.TestConnection(ctx)
}
