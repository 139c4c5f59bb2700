// Package metrics collects Prometheus metrics for one kubeprox run.
//
// kubeprox is a one-shot CLI, so metrics are kept in a private registry and
// written to a node_exporter textfile at the end of the run instead of being
// served over HTTP.
package metrics
