// Package payments is the root of the payments engine module.
//
// It holds the environment helpers shared by the binaries. The engine itself
// lives in the subpackages: ledger for the domain model, record for CSV input
// and output, engine for stream processing and shard for parallel ledgers.
package payments
