// Package ledger tallies client transactions into account balances.
//
// Core flow:
//   - Ledger.Apply routes a Transaction to the client's Account, creating it on
//     first reference.
//   - Account.Apply checks ownership and lock state, then runs the operation
//     against its Balance and stored deposits.
//   - Ledger.Snapshot projects every account into an AccountSnapshot.
//
// Amounts are arbitrary-precision decimals and can never be negative. Every
// failure is local to one transaction and is returned as a *TransactionError
// that unwraps to one of the package sentinels.
//
// A Ledger is not safe for concurrent use. Callers that want parallelism must
// shard by client so each Ledger keeps a single writer.
package ledger
