// Package transport dispatches single-attempt HTTP requests for probes.
//
// The client bounds each call with a timeout, keeps no cookies, disables
// connection reuse so a request is never silently replayed, and marks
// requests as uncacheable when asked to.
package transport
