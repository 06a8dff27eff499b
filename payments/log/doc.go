// Package log defines the logging interface and typed fields used by the engine.
//
// Adapters (such as the zap package) implement Logger so the ledger pipeline
// stays independent of the logging backend.
package log
