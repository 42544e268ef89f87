package settings

import (
	"fmt"
	"io"

	domain "github.com/oshokin/komga-settings/internal/domain/komga"
)

const (
	// Information is shown by the info command.
	Information = "A demonstration server is available on:\n" +
		"https://komga.org/guides/#demo\n\n" +
		"Minimal Komga version: v0.100.0"

	// TestHeader precedes the probe diagnostic.
	TestHeader = "Connection to Komga server:"

	// unsetPlaceholder is shown for fields that were never set.
	unsetPlaceholder = "<unset>"
	// maskedPassword replaces a set password.
	maskedPassword = "********"
)

// WriteCredentials prints the stored credentials with the password masked.
func WriteCredentials(w io.Writer, credentials *domain.Credentials) error {
	if credentials == nil {
		credentials = new(domain.Credentials)
	}

	password := unsetPlaceholder
	if credentials.ServerPassword != nil {
		password = maskedPassword
	}

	_, err := fmt.Fprintf(
		w,
		"Server URL: %s\nUsername:   %s\nPassword:   %s\n",
		valueOrUnset(credentials.ServerURL),
		valueOrUnset(credentials.ServerUsername),
		password,
	)

	return err
}

func valueOrUnset(value *string) string {
	if value == nil {
		return unsetPlaceholder
	}

	return fmt.Sprintf("%q", *value)
}
