// Package metrics provides a caching factory for OpenTelemetry instruments
// and the recorders used by the payments engine.
//
// Factory caches instruments by name and hands out immutable builders for
// counters, gauges and histograms.
package metrics
