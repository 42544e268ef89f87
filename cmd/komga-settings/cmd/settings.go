package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/oshokin/komga-settings/internal/domain/komga"
	"github.com/oshokin/komga-settings/internal/service/settings"
)

// errPasswordFlags is returned when both password sources are given.
var errPasswordFlags = errors.New("use either --password or --password-stdin")

// newShowCommand prints the stored settings with the password masked.
func newShowCommand(opts *settings.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored server settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, svc, err := settings.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}

			credentials, err := svc.Current(ctx)
			if err != nil {
				return err
			}

			return settings.WriteCredentials(cmd.OutOrStdout(), credentials)
		},
	}
}

// newSetCommand replaces the stored settings with the given flags.
func newSetCommand(opts *settings.Options) *cobra.Command {
	var (
		serverURL     string
		username      string
		password      string
		passwordStdin bool
	)

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Save server settings without testing them.",
		Long: `Replaces the stored server settings as a whole.

A flag that is not given leaves its field unset; previous values are not
kept. The settings are saved as typed and are not checked: run "test"
afterwards to try them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			if flags.Changed("password") && passwordStdin {
				return errPasswordFlags
			}

			// Only flags given on the command line are set.
			credentials := new(domain.Credentials)

			if flags.Changed("url") {
				credentials.ServerURL = domain.String(serverURL)
			}

			if flags.Changed("username") {
				credentials.ServerUsername = domain.String(username)
			}

			if flags.Changed("password") {
				credentials.ServerPassword = domain.String(password)
			}

			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}

				credentials.ServerPassword = domain.String(strings.TrimRight(line, "\r\n"))
			}

			ctx, svc, err := settings.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}

			return svc.Submit(ctx, credentials)
		},
	}

	setCmd.Flags().StringVar(&serverURL, "url", "", "server URL, e.g. http://127.0.0.1:8080")
	setCmd.Flags().StringVar(&username, "username", "", "account name")
	setCmd.Flags().StringVar(&password, "password", "", "account password")
	setCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")

	return setCmd
}

// newResetCommand clears the stored settings.
func newResetCommand(opts *settings.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset server settings to default (unset).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, svc, err := settings.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}

			return svc.Reset(ctx)
		},
	}
}

// newTestCommand tries the stored settings and prints the diagnostic.
func newTestCommand(opts *settings.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "test",
		Aliases: []string{"try"},
		Short:   "Try the stored settings against the server.",
		Long: `Sends one authenticated request to the server's libraries list and prints
the result. Failures to connect, wrong credentials and unexpected answers
are all reported as text; the command itself only fails when the local
configuration cannot be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, svc, err := settings.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", settings.TestHeader, svc.TrySettings(ctx))

			return err
		},
	}
}

// newInfoCommand prints where to find a demo server and the minimal supported version.
func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print information about supported Komga servers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), settings.Information)

			return err
		},
	}
}
