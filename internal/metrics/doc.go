// Package metrics provides Prometheus metrics for connectivity probes.
package metrics
