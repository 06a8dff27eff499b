//go:build unit

package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerHappyPath(t *testing.T) {
	l := New()

	for _, txn := range []Transaction{
		deposit(t, 1, 1, "10.00"),
		deposit(t, 1, 2, "10.00"),
		withdrawal(t, 1, 3, "5.00"),
	} {
		require.NoError(t, l.Apply(txn))
	}

	account, ok := l.Account(1)
	require.True(t, ok)
	assertBalance(t, account.Balance(), "15", "0")
	assert.False(t, account.Locked())
}

func TestLedgerErrsOnInsufficientFunds(t *testing.T) {
	l := New()

	require.NoError(t, l.Apply(deposit(t, 1, 1, "10.00")))
	require.NoError(t, l.Apply(deposit(t, 1, 2, "10.00")))
	require.ErrorIs(t, l.Apply(withdrawal(t, 1, 3, "30.00")), ErrInsufficientFunds)

	assertBalance(t, l.AccountFor(1).Balance(), "20", "0")
}

func TestLedgerCreatesAccountsLazily(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Len())

	_, ok := l.Account(5)
	assert.False(t, ok, "Account does not create")

	err := l.Apply(NewDispute(5, 1))
	require.ErrorIs(t, err, ErrDepositNotFound)
	assert.Equal(t, 1, l.Len(), "a failed transaction still registers its client")

	account, ok := l.Account(5)
	require.True(t, ok)
	assert.True(t, account.Balance().Total().IsZero())
	assert.False(t, account.Locked())

	assert.Same(t, account, l.AccountFor(5))
	assert.Equal(t, 1, l.Len())
}

func TestLedgerRoutesByClient(t *testing.T) {
	l := New()

	require.NoError(t, l.Apply(deposit(t, 1, 1, "1")))
	require.NoError(t, l.Apply(deposit(t, 2, 2, "2")))
	require.NoError(t, l.Apply(NewDispute(2, 2)))

	require.ErrorIs(t, l.Apply(NewDispute(1, 2)), ErrDepositNotFound, "tx 2 belongs to client 2")

	one, _ := l.Account(1)
	two, _ := l.Account(2)
	assertBalance(t, one.Balance(), "1", "0")
	assertBalance(t, two.Balance(), "0", "2")
}

func TestLedgerChargebackLocksOnlyThatClient(t *testing.T) {
	l := New()

	for _, txn := range []Transaction{
		deposit(t, 1, 1, "10.00"),
		deposit(t, 2, 2, "3"),
		NewDispute(1, 1),
		NewChargeback(1, 1),
	} {
		require.NoError(t, l.Apply(txn))
	}

	require.ErrorIs(t, l.Apply(deposit(t, 1, 3, "1")), ErrAccountLocked)
	require.NoError(t, l.Apply(deposit(t, 2, 4, "1")))

	snapshot := l.Snapshot()
	require.Len(t, snapshot, 2)

	assert.Equal(t, Client(1), snapshot[0].Client)
	assert.True(t, snapshot[0].Locked)
	assert.True(t, snapshot[0].Total.IsZero())

	assert.Equal(t, Client(2), snapshot[1].Client)
	assert.False(t, snapshot[1].Locked)
	assert.Equal(t, "4", snapshot[1].Available.String())
}

func TestLedgerSnapshotIsSorted(t *testing.T) {
	l := New()

	for _, client := range []Client{9, 3, 65535, 0, 4} {
		require.NoError(t, l.Apply(deposit(t, client, Tx(client), "1")))
	}

	snapshot := l.Snapshot()
	require.Len(t, snapshot, 5)

	clients := make([]Client, len(snapshot))
	for i, s := range snapshot {
		clients[i] = s.Client
	}

	assert.Equal(t, []Client{0, 3, 4, 9, 65535}, clients)
}

func TestLedgerSnapshotTotals(t *testing.T) {
	l := New()

	require.NoError(t, l.Apply(deposit(t, 2, 1, "1.2345")))
	require.NoError(t, l.Apply(deposit(t, 2, 2, "5.4321")))
	require.NoError(t, l.Apply(NewDispute(2, 2)))

	snapshot := l.Snapshot()
	require.Len(t, snapshot, 1)

	assert.Equal(t, "1.2345", snapshot[0].Available.String())
	assert.Equal(t, "5.4321", snapshot[0].Held.String())
	assert.Equal(t, "6.6666", snapshot[0].Total.String())
}

func TestLedgerWithDuplicateDeposits(t *testing.T) {
	l := New(WithDuplicateDeposits(RejectDuplicates), nil)

	require.NoError(t, l.Apply(deposit(t, 1, 1, "1")))

	err := l.Apply(deposit(t, 1, 1, "1"))
	require.ErrorIs(t, err, ErrDuplicateTransaction)
	assert.Equal(t, CodeDuplicateTransaction, Code(err))

	require.NoError(t, l.Apply(deposit(t, 2, 1, "1")), "tx ids are scoped per account")
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    DuplicatePolicy
		wantErr bool
	}{
		{input: "", want: OverwriteDuplicates},
		{input: "overwrite", want: OverwriteDuplicates},
		{input: " REJECT ", want: RejectDuplicates},
		{input: "first-wins", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{err: nil, want: CodeOK},
		{err: ErrUnauthorized, want: CodeUnauthorized},
		{err: ErrAccountLocked, want: CodeAccountLocked},
		{err: ErrInsufficientFunds, want: CodeInsufficientFunds},
		{err: ErrInsufficientHeldFunds, want: CodeInsufficientHeldFunds},
		{err: ErrDepositNotFound, want: CodeDepositNotFound},
		{err: ErrAlreadyDisputed, want: CodeAlreadyDisputed},
		{err: ErrNotDisputed, want: CodeNotDisputed},
		{err: ErrNegativeAmount, want: CodeNegativeAmount},
		{err: &TransactionError{Kind: KindWithdrawal, Err: ErrInsufficientFunds}, want: CodeInsufficientFunds},
		{err: errors.New("boom"), want: CodeUnknown},
	}

	for _, tt := range tests {
		tt := tt
		assert.Equal(t, tt.want, Code(tt.err), "err=%v", tt.err)
	}
}

func TestTransactionError(t *testing.T) {
	err := &TransactionError{Kind: KindWithdrawal, Client: 1, Tx: 3, Err: ErrInsufficientFunds}

	assert.Equal(t, "withdrawal tx 3 client 1: insufficient funds", err.Error())
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var nilErr *TransactionError
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.NoError(t, nilErr.Unwrap())
}
