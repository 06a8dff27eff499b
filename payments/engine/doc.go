// Package engine drives a transaction stream through the ledger.
//
// A Processor decodes rows with package record, applies them to a single
// ledger or to a shard pool, and returns a Report holding the final account
// snapshot sorted by client. Every run is traced, logged and metered.
package engine
