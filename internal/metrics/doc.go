// Package metrics defines the Prometheus collectors for the router worker and
// the HTTP API. Each Metrics value owns its registry so several instances can
// coexist in tests.
package metrics
