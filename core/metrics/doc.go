// Package metrics exposes Prometheus collectors for library migrations.
//
// Collectors are package level and registered once with the default registry
// through Register; the start command serves them at /metrics.
package metrics
