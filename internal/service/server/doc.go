// Package server runs the long-lived side of komga-settings: a gRPC health
// endpoint answering with on-demand probes and an optional Prometheus
// /metrics listener.
package server
