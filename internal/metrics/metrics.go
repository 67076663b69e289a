// Package metrics holds the Prometheus collectors of the search service.
package metrics

// Namespace prefixes every metric name.
const Namespace = "nivosearch"
