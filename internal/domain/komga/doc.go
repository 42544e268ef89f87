// Package komga contains core domain types for Komga server settings.
//
// It defines Credentials (what the user stored, with unset fields kept
// distinct from empty ones) and Endpoint (what a probe needs, derived from
// Credentials on demand).
package komga
