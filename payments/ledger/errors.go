package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeAmount is returned when an Amount would be built from a negative value.
	ErrNegativeAmount = errors.New("negative amounts are not allowed")
	// ErrUnauthorized is returned when a transaction reaches an account owned by another client.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAccountLocked is returned for any transaction on a locked account.
	ErrAccountLocked = errors.New("account is locked")
	// ErrInsufficientFunds is returned when a debit or hold exceeds available funds.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientHeldFunds is returned when a release or reimburse exceeds held funds.
	ErrInsufficientHeldFunds = errors.New("insufficient funds on hold")
	// ErrDepositNotFound is returned when a dispute, resolve or chargeback references an unknown deposit.
	ErrDepositNotFound = errors.New("deposit not found")
	// ErrAlreadyDisputed is returned when a dispute is opened on a deposit that is already disputed.
	ErrAlreadyDisputed = errors.New("can't open a new dispute until the previous one is finalized")
	// ErrNotDisputed is returned when a resolve or chargeback references a deposit without an open dispute.
	ErrNotDisputed = errors.New("can't close unless there is an existing dispute")
	// ErrDuplicateTransaction is returned under RejectDuplicates when a deposit reuses a stored tx.
	ErrDuplicateTransaction = errors.New("duplicate deposit transaction")
)

// ErrorCode is a stable identifier for a ledger failure, suitable for log
// fields and metric attributes.
type ErrorCode string

const (
	// CodeOK marks a transaction that was applied without error.
	CodeOK ErrorCode = "ok"
	// CodeNegativeAmount maps ErrNegativeAmount.
	CodeNegativeAmount ErrorCode = "negative_amount"
	// CodeUnauthorized maps ErrUnauthorized.
	CodeUnauthorized ErrorCode = "unauthorized"
	// CodeAccountLocked maps ErrAccountLocked.
	CodeAccountLocked ErrorCode = "account_locked"
	// CodeInsufficientFunds maps ErrInsufficientFunds.
	CodeInsufficientFunds ErrorCode = "insufficient_funds"
	// CodeInsufficientHeldFunds maps ErrInsufficientHeldFunds.
	CodeInsufficientHeldFunds ErrorCode = "insufficient_held_funds"
	// CodeDepositNotFound maps ErrDepositNotFound.
	CodeDepositNotFound ErrorCode = "deposit_not_found"
	// CodeAlreadyDisputed maps ErrAlreadyDisputed.
	CodeAlreadyDisputed ErrorCode = "already_disputed"
	// CodeNotDisputed maps ErrNotDisputed.
	CodeNotDisputed ErrorCode = "not_disputed"
	// CodeDuplicateTransaction maps ErrDuplicateTransaction.
	CodeDuplicateTransaction ErrorCode = "duplicate_transaction"
	// CodeUnknown is used for errors that did not originate in this package.
	CodeUnknown ErrorCode = "unknown"
)

var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrNegativeAmount, CodeNegativeAmount},
	{ErrUnauthorized, CodeUnauthorized},
	{ErrAccountLocked, CodeAccountLocked},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrInsufficientHeldFunds, CodeInsufficientHeldFunds},
	{ErrDepositNotFound, CodeDepositNotFound},
	{ErrAlreadyDisputed, CodeAlreadyDisputed},
	{ErrNotDisputed, CodeNotDisputed},
	{ErrDuplicateTransaction, CodeDuplicateTransaction},
}

// Code returns the ErrorCode for err. A nil error maps to CodeOK.
func Code(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}

	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}

	return CodeUnknown
}

// TransactionError reports which transaction failed and why.
type TransactionError struct {
	Kind   Kind
	Client Client
	Tx     Tx
	Err    error
}

// Error returns the formatted failure, e.g. "withdrawal tx 3 client 1: insufficient funds".
func (e *TransactionError) Error() string {
	if e == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s tx %d client %d: %v", e.Kind, e.Tx, e.Client, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *TransactionError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func wrap(txn Transaction, err error) error {
	if err == nil {
		return nil
	}

	return &TransactionError{Kind: txn.Kind(), Client: txn.Client(), Tx: txn.Tx(), Err: err}
}
