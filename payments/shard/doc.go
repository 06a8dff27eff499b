// Package shard runs ledgers in parallel by partitioning clients.
//
// A client is always routed to shard client%workers. Shards never share
// accounts, so each ledger keeps a single writer.
package shard
