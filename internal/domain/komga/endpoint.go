package komga

// Endpoint is what a probe needs to reach the server.
// Both fields are nil when the credentials it was derived from are incomplete.
type Endpoint struct {
	// BaseAPIURL is the prefix of every API route, e.g. http://host:8080/api/v1.
	BaseAPIURL *string
	// Authorization is the value of the Authorization request header.
	Authorization *string
}

// IsResolved reports whether the endpoint can be used to issue a request.
func (e Endpoint) IsResolved() bool {
	return e.BaseAPIURL != nil && e.Authorization != nil
}
