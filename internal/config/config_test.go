package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config gets defaults.
	settings := new(Config)

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultStateFilename, settings.StateFile)
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultLogLevel, settings.LogLevel)
	require.Equal(t, DefaultListenAddress, settings.ListenAddress)

	// Bad log level.
	settings = &Config{LogLevel: "loud"}
	require.ErrorIs(t, Validate(settings), errUnknownLogLevel)

	// Bad listen address.
	settings = &Config{ListenAddress: "bad:address"}
	require.Error(t, Validate(settings))

	// Bad metrics address.
	settings = &Config{MetricsAddress: "bad:address"}
	require.Error(t, Validate(settings))

	// Okay with metrics.
	settings = &Config{MetricsAddress: "127.0.0.1:0"}
	require.NoError(t, Validate(settings))

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestLoad_MissingFileReturnsDefaults ensures a fresh install works without a settings file.
func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestLoad_InvalidYAML verifies that malformed files are reported.
func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: [unterminated"), DefaultFilePermissions))

	_, err := Load(path)
	require.Error(t, err)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		StateFile:      filepath.Join(dir, "state.json"),
		Timeout:        1500 * time.Millisecond,
		LogLevel:       "debug",
		ListenAddress:  "127.0.0.1:50051",
		MetricsAddress: "127.0.0.1:9090",
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.ErrorIs(t, Save(path, nil), errConfigIsNotSet)
}
