package settings

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/komga-settings/internal/domain/komga"
	repo "github.com/oshokin/komga-settings/internal/repository/credentials"
	"github.com/oshokin/komga-settings/internal/service/probe"
)

var errTestSave = errors.New("test save error")

// countingTester records how many times a probe was requested.
type countingTester struct {
	// calls counts TestConnection invocations.
	calls int
	// answer is returned from TestConnection.
	answer string
}

// TestConnection counts the call and returns the fixed answer.
func (c *countingTester) TestConnection(context.Context) string {
	c.calls++

	return c.answer
}

// failingStore is a Repository whose writes always fail.
type failingStore struct{}

// Get returns empty credentials.
func (failingStore) Get(context.Context) (*domain.Credentials, error) {
	return new(domain.Credentials), nil
}

// Set always fails.
func (failingStore) Set(context.Context, *domain.Credentials) error {
	return errTestSave
}

func newFileService(t *testing.T, tester Tester) (*Service, *repo.FileRepository) {
	t.Helper()

	store := repo.NewFileRepository(filepath.Join(t.TempDir(), "state.json"))

	return NewService(store, tester), store
}

// TestSubmit_NeverProbes verifies that saving settings does not trigger a connectivity check.
func TestSubmit_NeverProbes(t *testing.T) {
	t.Parallel()

	tester := &countingTester{answer: probe.MessageSuccess}
	svc, _ := newFileService(t, tester)

	submitted := &domain.Credentials{
		ServerURL:      domain.String("not a url at all"),
		ServerUsername: domain.String("reader"),
	}

	require.NoError(t, svc.Submit(context.Background(), submitted))
	require.Zero(t, tester.calls)

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, submitted, got)
}

// TestSubmit_ReplacesWholeObject ensures a submit drops fields the new object does not carry.
func TestSubmit_ReplacesWholeObject(t *testing.T) {
	t.Parallel()

	svc, _ := newFileService(t, nil)

	require.NoError(t, svc.Submit(context.Background(), &domain.Credentials{
		ServerURL:      domain.String("http://old"),
		ServerUsername: domain.String("old"),
		ServerPassword: domain.String("old"),
	}))

	require.NoError(t, svc.Submit(context.Background(), &domain.Credentials{
		ServerURL: domain.String("http://new"),
	}))

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "http://new", *got.ServerURL)
	require.Nil(t, got.ServerUsername)
	require.Nil(t, got.ServerPassword)
}

// TestReset_ThenTry asserts reset is idempotent and leaves the store fully unset.
func TestReset_ThenTry(t *testing.T) {
	t.Parallel()

	svc, _ := newFileService(t, nil)

	require.NoError(t, svc.Submit(context.Background(), &domain.Credentials{
		ServerURL:      domain.String("http://komga.local"),
		ServerUsername: domain.String("reader"),
		ServerPassword: domain.String("secret"),
	}))

	for range 2 {
		require.NoError(t, svc.Reset(context.Background()))

		got, err := svc.Current(context.Background())
		require.NoError(t, err)
		require.True(t, got.IsEmpty())
	}
}

// TestTrySettings_DelegatesToTester checks the diagnostic is passed through verbatim.
func TestTrySettings_DelegatesToTester(t *testing.T) {
	t.Parallel()

	tester := &countingTester{answer: "Error 503"}
	svc, _ := newFileService(t, tester)

	require.Equal(t, "Error 503", svc.TrySettings(context.Background()))
	require.Equal(t, 1, tester.calls)

	require.Empty(t, NewService(nil, nil).TrySettings(context.Background()))
}

// TestService_StoreErrors covers missing and failing repositories.
func TestService_StoreErrors(t *testing.T) {
	t.Parallel()

	empty := NewService(nil, nil)

	_, err := empty.Current(context.Background())
	require.ErrorIs(t, err, errStoreRequired)
	require.ErrorIs(t, empty.Submit(context.Background(), nil), errStoreRequired)
	require.ErrorIs(t, empty.Reset(context.Background()), errStoreRequired)

	failing := NewService(failingStore{}, nil)
	require.ErrorIs(t, failing.Submit(context.Background(), new(domain.Credentials)), errTestSave)
	require.ErrorIs(t, failing.Reset(context.Background()), errTestSave)
}

// TestWriteCredentials verifies the password is never printed.
func TestWriteCredentials(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteCredentials(&buf, &domain.Credentials{
		ServerURL:      domain.String("http://komga.local"),
		ServerUsername: domain.String(""),
		ServerPassword: domain.String("secret"),
	}))

	out := buf.String()
	require.Contains(t, out, `Server URL: "http://komga.local"`)
	require.Contains(t, out, `Username:   ""`)
	require.Contains(t, out, "Password:   ********")
	require.NotContains(t, out, "secret")

	buf.Reset()
	require.NoError(t, WriteCredentials(&buf, nil))
	require.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("<unset>")))
}
