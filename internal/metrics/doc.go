// Package metrics exports wallet migration run results as Prometheus gauges
// written to a node exporter textfile.
package metrics
