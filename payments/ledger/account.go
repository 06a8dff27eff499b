package ledger

import "fmt"

// Account is one client's balance, lock flag and disputable deposits.
//
// Once locked, an account rejects every transaction and cannot be unlocked.
type Account struct {
	client   Client
	balance  Balance
	locked   bool
	deposits map[Tx]*Deposit
	policy   DuplicatePolicy
}

// NewAccount returns an empty, unlocked account for client.
func NewAccount(client Client) *Account {
	return newAccount(client, OverwriteDuplicates)
}

func newAccount(client Client, policy DuplicatePolicy) *Account {
	return &Account{
		client:   client,
		deposits: make(map[Tx]*Deposit),
		policy:   policy,
	}
}

// Client returns the owner of the account.
func (a *Account) Client() Client {
	return a.client
}

// Balance returns a copy of the current balance.
func (a *Account) Balance() Balance {
	return a.balance
}

// Locked reports whether a chargeback has frozen the account.
func (a *Account) Locked() bool {
	return a.locked
}

// Deposit returns a copy of the deposit stored at tx.
func (a *Account) Deposit(tx Tx) (Deposit, bool) {
	deposit, ok := a.deposits[tx]
	if !ok {
		return Deposit{}, false
	}

	return *deposit, true
}

// Snapshot projects the account into a flat record.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		Client:    a.client,
		Available: a.balance.Available(),
		Held:      a.balance.Held(),
		Total:     a.balance.Total(),
		Locked:    a.locked,
	}
}

// Apply runs txn against the account.
//
// Ownership is checked first, then the lock. A dispute whose hold fails leaves
// the deposit disputed, and a chargeback locks the account even if the
// reimbursement fails; neither is rolled back.
func (a *Account) Apply(txn Transaction) error {
	if txn.Client() != a.client {
		return wrap(txn, ErrUnauthorized)
	}

	if a.locked {
		return wrap(txn, ErrAccountLocked)
	}

	switch txn.Kind() {
	case KindDeposit:
		return wrap(txn, a.deposit(txn))
	case KindWithdrawal:
		amount, _ := txn.Amount()

		return wrap(txn, a.balance.Debit(amount))
	case KindDispute:
		return wrap(txn, a.dispute(txn.Tx()))
	case KindResolve:
		return wrap(txn, a.resolve(txn.Tx()))
	case KindChargeback:
		return wrap(txn, a.chargeback(txn.Tx()))
	default:
		return wrap(txn, fmt.Errorf("unsupported transaction kind %d", txn.Kind()))
	}
}

func (a *Account) deposit(txn Transaction) error {
	if _, exists := a.deposits[txn.Tx()]; exists && a.policy == RejectDuplicates {
		return ErrDuplicateTransaction
	}

	amount, _ := txn.Amount()
	a.balance.Credit(amount)

	deposit := newDeposit(amount)
	a.deposits[txn.Tx()] = &deposit

	return nil
}

func (a *Account) dispute(tx Tx) error {
	deposit, err := a.lookup(tx)
	if err != nil {
		return err
	}

	if err := deposit.OpenDispute(); err != nil {
		return err
	}

	return a.balance.Hold(deposit.Amount())
}

func (a *Account) resolve(tx Tx) error {
	deposit, err := a.lookup(tx)
	if err != nil {
		return err
	}

	if err := deposit.CloseDispute(); err != nil {
		return err
	}

	return a.balance.Release(deposit.Amount())
}

func (a *Account) chargeback(tx Tx) error {
	deposit, err := a.lookup(tx)
	if err != nil {
		return err
	}

	if err := deposit.CloseDispute(); err != nil {
		return err
	}

	a.locked = true

	return a.balance.Reimburse(deposit.Amount())
}

func (a *Account) lookup(tx Tx) (*Deposit, error) {
	deposit, ok := a.deposits[tx]
	if !ok {
		return nil, ErrDepositNotFound
	}

	return deposit, nil
}
