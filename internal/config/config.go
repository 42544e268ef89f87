package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/komga-settings/internal/logger"
)

// Config holds application parameters shared by all komga-settings commands.
type Config struct {
	// StateFile is the path to the JSON file storing server credentials.
	StateFile string `yaml:"state_file"`
	// Timeout bounds a single connectivity probe, connection setup included.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of diagnostics written to stderr.
	LogLevel string `yaml:"log_level"`
	// ListenAddress is the gRPC health endpoint address used by the serve command.
	ListenAddress string `yaml:"listen_addr"`
	// MetricsAddress is the HTTP address exposing /metrics; empty disables it.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for application settings.
	DefaultConfigFilename = "komga-settings.yaml"

	// DefaultStateFilename is the default filename for stored server credentials.
	DefaultStateFilename = "komga-settings-state.json"

	// DefaultTimeout is the default duration for a connectivity probe.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultListenAddress is the default gRPC listen address for the serve command.
	DefaultListenAddress = ":50051"

	// DefaultFilePermissions is the default file permission for config and state files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned when the log level cannot be parsed.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns a configuration with every field set to its default value.
func Default() *Config {
	return &Config{
		StateFile:     DefaultStateFilename,
		Timeout:       DefaultTimeout,
		LogLevel:      DefaultLogLevel,
		ListenAddress: DefaultListenAddress,
	}
}

// Load reads configuration from the provided path and validates it.
// A missing file is not an error: defaults are returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks the remaining ones for formatting.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	if settings.ListenAddress == "" {
		settings.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if settings.MetricsAddress == "" {
		return nil
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.MetricsAddress); err != nil {
		return fmt.Errorf("invalid metrics address: %w", err)
	}

	return nil
}
