// Package metrics exposes Prometheus collectors for the API, the worker and
// the translation engine they both run.
package metrics

const namespace = "tmle"
