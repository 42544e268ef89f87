package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/komga-settings/internal/config"
	"github.com/oshokin/komga-settings/internal/endpoint"
	"github.com/oshokin/komga-settings/internal/logger"
	repo "github.com/oshokin/komga-settings/internal/repository/credentials"
	"github.com/oshokin/komga-settings/internal/service/probe"
	"github.com/oshokin/komga-settings/internal/transport"
)

// Options controls how the settings commands locate their files.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// StateFile overrides the credentials file from the configuration when set.
	StateFile string
	// LogLevel overrides the log level from the configuration when set.
	LogLevel string
}

// errUnknownLogLevel is returned when the log level override cannot be parsed.
var errUnknownLogLevel = errors.New("unknown log level")

// Open loads the configuration and wires the service to a file repository and an HTTP prober.
func Open(ctx context.Context, opts *Options) (context.Context, *Service, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "settings")

	cfg, err := LoadConfig(opts)
	if err != nil {
		return ctx, nil, err
	}

	store := repo.NewFileRepository(cfg.StateFile)

	prober := probe.NewProber(
		endpoint.NewResolver(store),
		transport.New(transport.WithCallTimeout(cfg.Timeout)),
	)

	logger.DebugKV(ctx, "Settings service ready", "state_file", store.Path(), "timeout", cfg.Timeout.String())

	return ctx, NewService(store, prober), nil
}

// LoadConfig reads the configuration, applies command line overrides and the log level.
func LoadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	// Use the state file from options if provided, otherwise use config.
	if opts.StateFile != "" {
		cfg.StateFile = opts.StateFile
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	logger.SetLevel(level)

	return cfg, nil
}
