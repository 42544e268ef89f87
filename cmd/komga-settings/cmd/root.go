package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/komga-settings/internal/config"
	"github.com/oshokin/komga-settings/internal/logger"
	"github.com/oshokin/komga-settings/internal/service/settings"
	"github.com/oshokin/komga-settings/internal/version"
)

// newRootCommand builds the command tree. Flag values live in opts so every tree is independent.
func newRootCommand() *cobra.Command {
	opts := new(settings.Options)

	rootCmd := &cobra.Command{
		Use:   "komga-settings",
		Short: "Manage and verify Komga server connection settings.",
		Long: `Stores the URL, username and password of a Komga server and checks them on demand.

Saving settings never contacts the server. Use "test" to try the stored
settings: it sends one authenticated request to the libraries list and
prints a one-line diagnostic. Use "reset" to clear everything.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().
		StringVarP(&opts.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&opts.StateFile, "state-file", "s", "", "path to stored credentials (overrides configuration)")
	rootCmd.PersistentFlags().
		StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error (overrides configuration)")

	rootCmd.AddCommand(
		newShowCommand(opts),
		newSetCommand(opts),
		newResetCommand(opts),
		newTestCommand(opts),
		newInfoCommand(),
		newServeCommand(opts),
	)

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// Execute runs the komga-settings CLI and exits with non-zero status on error.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := newRootCommand().ExecuteContext(ctx)

	stop()
	logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}
