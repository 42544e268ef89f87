// Package probe verifies connectivity to the configured Komga server.
//
// A Prober issues one authenticated GET against the libraries list and turns
// whatever happens (unset credentials, a network failure or any HTTP status)
// into an Outcome with a human-readable String. It never returns an error.
package probe
