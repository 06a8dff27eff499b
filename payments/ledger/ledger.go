package ledger

import (
	"fmt"
	"sort"
	"strings"
)

// DuplicatePolicy decides what a deposit does when its tx is already stored
// in the account.
type DuplicatePolicy uint8

const (
	// OverwriteDuplicates credits the new deposit and replaces the stored record.
	OverwriteDuplicates DuplicatePolicy = iota
	// RejectDuplicates fails the deposit with ErrDuplicateTransaction and changes nothing.
	RejectDuplicates
)

// String returns the configuration name of the policy.
func (p DuplicatePolicy) String() string {
	switch p {
	case OverwriteDuplicates:
		return "overwrite"
	case RejectDuplicates:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseDuplicatePolicy maps "overwrite" or "reject" to a DuplicatePolicy.
// An empty string selects OverwriteDuplicates.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return OverwriteDuplicates, nil
	case "reject":
		return RejectDuplicates, nil
	}

	return OverwriteDuplicates, fmt.Errorf("invalid duplicate deposit policy %q", s)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithDuplicateDeposits sets the policy applied by every account of the ledger.
func WithDuplicateDeposits(policy DuplicatePolicy) Option {
	return func(l *Ledger) {
		l.policy = policy
	}
}

// AccountSnapshot is the externally visible state of one account.
type AccountSnapshot struct {
	Client    Client
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool
}

// Ledger routes transactions to per-client accounts.
//
// Accounts are created on first reference and never removed.
type Ledger struct {
	accounts map[Client]*Account
	policy   DuplicatePolicy
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{accounts: make(map[Client]*Account)}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// Apply routes txn to its client's account and returns the account's result.
func (l *Ledger) Apply(txn Transaction) error {
	return l.AccountFor(txn.Client()).Apply(txn)
}

// AccountFor returns the account of client, creating it if needed.
func (l *Ledger) AccountFor(client Client) *Account {
	if account, ok := l.accounts[client]; ok {
		return account
	}

	account := newAccount(client, l.policy)
	l.accounts[client] = account

	return account
}

// Account returns the account of client without creating it.
func (l *Ledger) Account(client Client) (*Account, bool) {
	account, ok := l.accounts[client]

	return account, ok
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// Snapshot returns every account ordered by client.
func (l *Ledger) Snapshot() []AccountSnapshot {
	snapshots := make([]AccountSnapshot, 0, len(l.accounts))
	for _, account := range l.accounts {
		snapshots = append(snapshots, account.Snapshot())
	}

	SortSnapshots(snapshots)

	return snapshots
}

// SortSnapshots orders snapshots by client in place.
func SortSnapshots(snapshots []AccountSnapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
}
