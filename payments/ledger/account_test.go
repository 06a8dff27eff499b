//go:build unit

package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deposit(t *testing.T, client Client, tx Tx, amount string) Transaction {
	t.Helper()

	return NewDeposit(client, tx, mustAmount(t, amount))
}

func withdrawal(t *testing.T, client Client, tx Tx, amount string) Transaction {
	t.Helper()

	return NewWithdrawal(client, tx, mustAmount(t, amount))
}

func applyAll(t *testing.T, account *Account, txns ...Transaction) {
	t.Helper()

	for _, txn := range txns {
		require.NoError(t, account.Apply(txn), "apply %s", txn)
	}
}

// ---------------------------------------------------------------------------
// Guards
// ---------------------------------------------------------------------------

func TestAccountRejectsForeignClient(t *testing.T) {
	account := NewAccount(1)

	err := account.Apply(deposit(t, 2, 1, "10"))
	require.ErrorIs(t, err, ErrUnauthorized)

	var txErr *TransactionError
	require.True(t, errors.As(err, &txErr))
	assert.Equal(t, Client(2), txErr.Client)
	assert.Equal(t, Tx(1), txErr.Tx)
	assert.Equal(t, KindDeposit, txErr.Kind)

	assert.True(t, account.Balance().Total().IsZero())
	_, stored := account.Deposit(1)
	assert.False(t, stored)
}

func TestAccountUnknownKind(t *testing.T) {
	account := NewAccount(0)

	err := account.Apply(Transaction{})
	require.Error(t, err)
	assert.Equal(t, CodeUnknown, Code(err))
}

// ---------------------------------------------------------------------------
// Deposits and withdrawals
// ---------------------------------------------------------------------------

func TestAccountDepositsAndWithdrawals(t *testing.T) {
	account := NewAccount(1)

	applyAll(t, account,
		deposit(t, 1, 1, "10.00"),
		deposit(t, 1, 2, "10.00"),
		withdrawal(t, 1, 3, "5.00"),
	)

	assertBalance(t, account.Balance(), "15", "0")
	assert.False(t, account.Locked())

	stored, ok := account.Deposit(2)
	require.True(t, ok)
	assert.Equal(t, DisputeClosed, stored.Status())

	_, ok = account.Deposit(3)
	assert.False(t, ok, "withdrawals are not stored")
}

func TestAccountWithdrawalInsufficientFunds(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account, deposit(t, 1, 1, "10"), deposit(t, 1, 2, "10"))

	err := account.Apply(withdrawal(t, 1, 3, "30"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "tx 3")

	assertBalance(t, account.Balance(), "20", "0")
}

func TestAccountDuplicateDeposit(t *testing.T) {
	t.Run("overwrite replaces the stored record", func(t *testing.T) {
		account := NewAccount(1)
		applyAll(t, account, deposit(t, 1, 1, "10"), deposit(t, 1, 1, "3"))

		assertBalance(t, account.Balance(), "13", "0")

		stored, ok := account.Deposit(1)
		require.True(t, ok)
		assert.True(t, stored.Amount().Equal(mustAmount(t, "3")))
	})

	t.Run("reject leaves the account untouched", func(t *testing.T) {
		account := newAccount(1, RejectDuplicates)
		applyAll(t, account, deposit(t, 1, 1, "10"))

		err := account.Apply(deposit(t, 1, 1, "3"))
		require.ErrorIs(t, err, ErrDuplicateTransaction)

		assertBalance(t, account.Balance(), "10", "0")

		stored, ok := account.Deposit(1)
		require.True(t, ok)
		assert.True(t, stored.Amount().Equal(mustAmount(t, "10")))
	})
}

// ---------------------------------------------------------------------------
// Dispute lifecycle
// ---------------------------------------------------------------------------

func TestAccountDisputeAndResolve(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account, deposit(t, 1, 1, "10.00"))

	require.NoError(t, account.Apply(NewDispute(1, 1)))
	assertBalance(t, account.Balance(), "0", "10")

	require.NoError(t, account.Apply(NewResolve(1, 1)))
	assertBalance(t, account.Balance(), "10", "0")
	assert.False(t, account.Locked())
}

func TestAccountDisputeReentry(t *testing.T) {
	account := NewAccount(1)

	applyAll(t, account,
		deposit(t, 1, 1, "4"),
		NewDispute(1, 1),
		NewResolve(1, 1),
		NewDispute(1, 1),
	)

	assertBalance(t, account.Balance(), "0", "4")

	stored, _ := account.Deposit(1)
	assert.Equal(t, DisputeOpened, stored.Status())
}

func TestAccountChargeback(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account,
		deposit(t, 1, 1, "10.00"),
		NewDispute(1, 1),
		NewChargeback(1, 1),
	)

	assertBalance(t, account.Balance(), "0", "0")
	assert.True(t, account.Locked())

	err := account.Apply(NewDispute(1, 1))
	require.ErrorIs(t, err, ErrAccountLocked)
	assert.NotErrorIs(t, err, ErrAlreadyDisputed)
}

func TestAccountLockedRejectsEverything(t *testing.T) {
	account := NewAccount(7)
	applyAll(t, account,
		deposit(t, 7, 1, "10"),
		deposit(t, 7, 2, "5"),
		NewDispute(7, 1),
		NewChargeback(7, 1),
	)

	before := account.Balance()

	txns := []Transaction{
		deposit(t, 7, 3, "1"),
		withdrawal(t, 7, 4, "1"),
		NewDispute(7, 2),
		NewResolve(7, 2),
		NewChargeback(7, 2),
	}

	for _, txn := range txns {
		t.Run(txn.Kind().String(), func(t *testing.T) {
			require.ErrorIs(t, account.Apply(txn), ErrAccountLocked)
			assert.Equal(t, before, account.Balance())
			assert.True(t, account.Locked())
		})
	}
}

func TestAccountDisputeHoldFailureKeepsDisputeOpen(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account, deposit(t, 1, 1, "1.00"), withdrawal(t, 1, 2, "1.00"))

	err := account.Apply(NewDispute(1, 1))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	stored, ok := account.Deposit(1)
	require.True(t, ok)
	assert.Equal(t, DisputeOpened, stored.Status())
	assertBalance(t, account.Balance(), "0", "0")
	assert.False(t, account.Locked())

	require.ErrorIs(t, account.Apply(NewDispute(1, 1)), ErrAlreadyDisputed)
}

func TestAccountChargebackLocksWhenReimburseFails(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account, deposit(t, 1, 1, "1.00"), withdrawal(t, 1, 2, "1.00"))
	require.ErrorIs(t, account.Apply(NewDispute(1, 1)), ErrInsufficientFunds)

	err := account.Apply(NewChargeback(1, 1))
	require.ErrorIs(t, err, ErrInsufficientHeldFunds)
	assert.Equal(t, CodeInsufficientHeldFunds, Code(err))

	assert.True(t, account.Locked(), "chargeback locks even when nothing was held")
	assertBalance(t, account.Balance(), "0", "0")

	stored, ok := account.Deposit(1)
	require.True(t, ok)
	assert.Equal(t, DisputeClosed, stored.Status())

	require.ErrorIs(t, account.Apply(deposit(t, 1, 3, "5")), ErrAccountLocked)
	assertBalance(t, account.Balance(), "0", "0")
}

func TestAccountResolveAfterFailedHold(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account, deposit(t, 1, 1, "1.00"), withdrawal(t, 1, 2, "1.00"))
	require.ErrorIs(t, account.Apply(NewDispute(1, 1)), ErrInsufficientFunds)

	err := account.Apply(NewResolve(1, 1))
	require.ErrorIs(t, err, ErrInsufficientHeldFunds)

	stored, ok := account.Deposit(1)
	require.True(t, ok)
	assert.Equal(t, DisputeClosed, stored.Status())
	assertBalance(t, account.Balance(), "0", "0")
	assert.False(t, account.Locked())

	applyAll(t, account, deposit(t, 1, 3, "2.00"), NewDispute(1, 1))
	assertBalance(t, account.Balance(), "1", "1")
}

func TestAccountDisputeErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   []Transaction
		txn     Transaction
		wantErr error
		locked  bool
	}{
		{name: "dispute unknown deposit", txn: NewDispute(1, 9), wantErr: ErrDepositNotFound},
		{name: "resolve unknown deposit", txn: NewResolve(1, 9), wantErr: ErrDepositNotFound},
		{name: "chargeback unknown deposit", txn: NewChargeback(1, 9), wantErr: ErrDepositNotFound},
		{name: "resolve undisputed deposit", txn: NewResolve(1, 1), wantErr: ErrNotDisputed},
		{name: "chargeback undisputed deposit", txn: NewChargeback(1, 1), wantErr: ErrNotDisputed},
		{
			name:    "dispute twice",
			setup:   []Transaction{NewDispute(1, 1)},
			txn:     NewDispute(1, 1),
			wantErr: ErrAlreadyDisputed,
		},
		{
			name:    "resolve after resolve",
			setup:   []Transaction{NewDispute(1, 1), NewResolve(1, 1)},
			txn:     NewResolve(1, 1),
			wantErr: ErrNotDisputed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			account := NewAccount(1)
			applyAll(t, account, deposit(t, 1, 1, "10"))
			applyAll(t, account, tt.setup...)

			before := account.Balance()

			require.ErrorIs(t, account.Apply(tt.txn), tt.wantErr)
			assert.Equal(t, before, account.Balance())
			assert.Equal(t, tt.locked, account.Locked())
		})
	}
}

func TestAccountDisputeUsesStoredAmount(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account, deposit(t, 1, 1, "2.5"), deposit(t, 1, 2, "7"))

	require.NoError(t, account.Apply(NewDispute(1, 2)))
	assertBalance(t, account.Balance(), "2.5", "7")

	require.NoError(t, account.Apply(NewChargeback(1, 2)))
	assertBalance(t, account.Balance(), "2.5", "0")
}

func TestAccountWithdrawalNotDisputable(t *testing.T) {
	account := NewAccount(1)
	applyAll(t, account, deposit(t, 1, 1, "5"), withdrawal(t, 1, 2, "1"))

	require.ErrorIs(t, account.Apply(NewDispute(1, 2)), ErrDepositNotFound)
}

// ---------------------------------------------------------------------------
// Invariants
// ---------------------------------------------------------------------------

func TestAccountTotalConservation(t *testing.T) {
	account := NewAccount(1)

	require.NoError(t, account.Apply(deposit(t, 1, 1, "10")))
	assert.True(t, account.Balance().Total().Equal(mustAmount(t, "10")))

	require.NoError(t, account.Apply(withdrawal(t, 1, 2, "3")))
	assert.True(t, account.Balance().Total().Equal(mustAmount(t, "7")))

	require.NoError(t, account.Apply(deposit(t, 1, 3, "2")))
	total := account.Balance().Total()

	require.NoError(t, account.Apply(NewDispute(1, 3)))
	assert.True(t, account.Balance().Total().Equal(total))

	require.NoError(t, account.Apply(NewResolve(1, 3)))
	assert.True(t, account.Balance().Total().Equal(total))
}

func TestAccountBalanceNeverNegative(t *testing.T) {
	account := NewAccount(3)

	txns := []Transaction{
		deposit(t, 3, 1, "1"),
		withdrawal(t, 3, 2, "2"),
		withdrawal(t, 3, 3, "0.75"),
		NewDispute(3, 1),
		NewResolve(3, 1),
		NewDispute(3, 1),
		deposit(t, 3, 4, "0.25"),
		NewResolve(3, 1),
		withdrawal(t, 3, 5, "0.5"),
		NewChargeback(3, 4),
		NewDispute(3, 4),
		NewChargeback(3, 4),
		deposit(t, 3, 6, "1"),
	}

	for _, txn := range txns {
		_ = account.Apply(txn)

		b := account.Balance()
		assert.GreaterOrEqual(t, b.Available().Cmp(Zero), 0, "after %s", txn)
		assert.GreaterOrEqual(t, b.Held().Cmp(Zero), 0, "after %s", txn)
	}
}
