// Package opentelemetry holds the tracing helpers shared by the engine.
package opentelemetry
