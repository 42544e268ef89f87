package komga

// Credentials are the user-supplied connection settings of a Komga server.
// A nil field is unset, which is not the same as an empty string.
type Credentials struct {
	// ServerURL is the root address of the server, e.g. http://127.0.0.1:8080.
	ServerURL *string
	// ServerUsername is the account used for basic authentication.
	ServerUsername *string
	// ServerPassword is the secret paired with ServerUsername.
	ServerPassword *string
}

// String returns a pointer to v, for building Credentials literals.
func String(v string) *string {
	return &v
}

// IsComplete reports whether every field has been set.
func (c *Credentials) IsComplete() bool {
	return c != nil &&
		c.ServerURL != nil &&
		c.ServerUsername != nil &&
		c.ServerPassword != nil
}

// IsEmpty reports whether no field has been set.
func (c *Credentials) IsEmpty() bool {
	return c == nil ||
		(c.ServerURL == nil && c.ServerUsername == nil && c.ServerPassword == nil)
}

// Clone returns a deep copy so callers can't mutate stored values through shared pointers.
func (c *Credentials) Clone() *Credentials {
	if c == nil {
		return new(Credentials)
	}

	return &Credentials{
		ServerURL:      cloneString(c.ServerURL),
		ServerUsername: cloneString(c.ServerUsername),
		ServerPassword: cloneString(c.ServerPassword),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s

	return &v
}
