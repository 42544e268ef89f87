package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/komga-settings/internal/service/server"
	"github.com/oshokin/komga-settings/internal/service/settings"
)

// newServeCommand runs the gRPC health endpoint.
func newServeCommand(opts *settings.Options) *cobra.Command {
	var metricsAddress string

	serveCmd := &cobra.Command{
		Use:   "serve [listen-address]",
		Short: "Expose the connectivity check as a gRPC health service.",
		Long: `Starts a gRPC server implementing grpc.health.v1.Health.

Every Check call tries the stored settings once and answers SERVING on a
successful connection, NOT_SERVING otherwise; the diagnostic text is sent
in the "komga-diagnostic" response header. Nothing is polled in between.
Listen address can be provided as argument to override config (e.g., :50051).
Prometheus metrics are served on /metrics when a metrics address is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				Settings:       *opts,
				ListenAddress:  listenAddress,
				MetricsAddress: metricsAddress,
			}

			return server.Run(cmd.Context(), options)
		},
	}

	serveCmd.Flags().StringVarP(&metricsAddress, "metrics-addr", "m", "", "address for the Prometheus /metrics endpoint")

	return serveCmd
}
