// Package record converts between external records and ledger values.
//
// Input is CSV with a header row naming the columns type, client, tx and
// amount. Output is one AccountRecord per client in CSV, JSON or CBOR.
package record
