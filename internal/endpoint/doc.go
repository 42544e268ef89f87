// Package endpoint derives the Komga API base URL and the Authorization
// header value from the stored credentials.
package endpoint
