// Package health implements the standard gRPC health service on top of the
// connectivity prober.
//
// Every Check runs one probe against the Komga server; nothing is polled in
// the background. The probe diagnostic is returned in the response header.
package health
