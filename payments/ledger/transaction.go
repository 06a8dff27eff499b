package ledger

import (
	"fmt"
	"strings"
)

// Client identifies the owner of an account.
type Client uint16

// Tx identifies a transaction record.
type Tx uint32

// Kind is the operation carried by a Transaction.
type Kind uint8

const (
	// KindDeposit credits the account and records a disputable deposit.
	KindDeposit Kind = iota + 1
	// KindWithdrawal debits available funds.
	KindWithdrawal
	// KindDispute holds the funds of a stored deposit.
	KindDispute
	// KindResolve releases the funds of a disputed deposit.
	KindResolve
	// KindChargeback removes the funds of a disputed deposit and locks the account.
	KindChargeback
)

// String returns the lowercase wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// ParseKind maps a wire name such as "deposit" to its Kind. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return KindDeposit, nil
	case "withdrawal":
		return KindWithdrawal, nil
	case "dispute":
		return KindDispute, nil
	case "resolve":
		return KindResolve, nil
	case "chargeback":
		return KindChargeback, nil
	}

	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// Transaction is an immutable request against one client's account.
//
// Only deposits and withdrawals carry an amount. Disputes, resolves and
// chargebacks reference a stored deposit by Tx and always use its amount.
type Transaction struct {
	kind   Kind
	client Client
	tx     Tx
	amount Amount
}

// NewDeposit builds a deposit of amount for client.
func NewDeposit(client Client, tx Tx, amount Amount) Transaction {
	return Transaction{kind: KindDeposit, client: client, tx: tx, amount: amount}
}

// NewWithdrawal builds a withdrawal of amount for client.
func NewWithdrawal(client Client, tx Tx, amount Amount) Transaction {
	return Transaction{kind: KindWithdrawal, client: client, tx: tx, amount: amount}
}

// NewDispute builds a dispute of the deposit recorded as tx.
func NewDispute(client Client, tx Tx) Transaction {
	return Transaction{kind: KindDispute, client: client, tx: tx}
}

// NewResolve builds a resolution of the dispute on tx.
func NewResolve(client Client, tx Tx) Transaction {
	return Transaction{kind: KindResolve, client: client, tx: tx}
}

// NewChargeback builds a chargeback of the dispute on tx.
func NewChargeback(client Client, tx Tx) Transaction {
	return Transaction{kind: KindChargeback, client: client, tx: tx}
}

// Kind returns the operation.
func (t Transaction) Kind() Kind {
	return t.kind
}

// Client returns the client the transaction belongs to.
func (t Transaction) Client() Client {
	return t.client
}

// Tx returns the transaction id.
func (t Transaction) Tx() Tx {
	return t.tx
}

// Amount returns the amount for deposits and withdrawals. ok is false for the
// other kinds.
func (t Transaction) Amount() (amount Amount, ok bool) {
	switch t.kind {
	case KindDeposit, KindWithdrawal:
		return t.amount, true
	default:
		return Zero, false
	}
}

// String returns a compact description, e.g. "deposit client=1 tx=2 amount=1.5".
func (t Transaction) String() string {
	if amount, ok := t.Amount(); ok {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.kind, t.client, t.tx, amount)
	}

	return fmt.Sprintf("%s client=%d tx=%d", t.kind, t.client, t.tx)
}
