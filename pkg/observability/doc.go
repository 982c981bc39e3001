/*
Package observability exposes Prometheus metrics for document generation.

A nil *Metrics is valid and records nothing, so components can take one
unconditionally.
*/
package observability
