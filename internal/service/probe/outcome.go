package probe

import "fmt"

// Kind tags which of the possible results an Outcome holds.
type Kind int

// Outcome kinds.
const (
	KindCredentialsUnset Kind = iota
	KindSuccess
	KindUnauthorized
	KindUnexpectedStatus
	KindConnectionFailure
)

// Diagnostics shown to the user.
const (
	MessageCredentialsUnset  = "Impossible: Unset credentials in server settings"
	MessageSuccess           = "Successful connection!"
	MessageUnauthorized      = "Error 401 Unauthorized: Invalid credentials"
	messageUnexpectedStatus  = "Error %d"
	messageConnectionFailure = "Failed: Could not connect to server - %s"
)

// Outcome is the classified result of a single probe.
type Outcome struct {
	// Kind tells which result this is.
	Kind Kind
	// StatusCode is the HTTP status for KindUnexpectedStatus.
	StatusCode int
	// Message is the transport failure description for KindConnectionFailure.
	Message string
}

// String renders the outcome as the diagnostic shown to the user.
func (o Outcome) String() string {
	switch o.Kind {
	case KindSuccess:
		return MessageSuccess
	case KindUnauthorized:
		return MessageUnauthorized
	case KindUnexpectedStatus:
		return fmt.Sprintf(messageUnexpectedStatus, o.StatusCode)
	case KindConnectionFailure:
		return fmt.Sprintf(messageConnectionFailure, o.Message)
	default:
		return MessageCredentialsUnset
	}
}

// Label is a short stable name, used for metrics and logs.
func (o Outcome) Label() string {
	switch o.Kind {
	case KindSuccess:
		return "success"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnexpectedStatus:
		return "unexpected_status"
	case KindConnectionFailure:
		return "connection_failure"
	default:
		return "credentials_unset"
	}
}

// IsSuccess reports whether the server accepted the credentials.
func (o Outcome) IsSuccess() bool {
	return o.Kind == KindSuccess
}
