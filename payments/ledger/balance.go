package ledger

// Balance holds the available and held funds of one account.
//
// Both fields are kept non-negative by checking each operation's
// precondition before mutating anything. The zero value is an empty balance.
type Balance struct {
	available Amount
	held      Amount
}

// Available returns the funds free for withdrawal.
func (b Balance) Available() Amount {
	return b.available
}

// Held returns the funds frozen by open disputes.
func (b Balance) Held() Amount {
	return b.held
}

// Total returns available + held.
func (b Balance) Total() Amount {
	return b.available.Add(b.held)
}

// Credit adds amount to the available funds.
func (b *Balance) Credit(amount Amount) {
	b.available = b.available.Add(amount)
}

// Debit removes amount from the available funds.
// Returns ErrInsufficientFunds if available < amount.
func (b *Balance) Debit(amount Amount) error {
	if !b.available.GreaterThanOrEqual(amount) {
		return ErrInsufficientFunds
	}

	b.available = b.available.minus(amount)

	return nil
}

// Hold moves amount from available to held.
// Returns ErrInsufficientFunds if available < amount.
func (b *Balance) Hold(amount Amount) error {
	if !b.available.GreaterThanOrEqual(amount) {
		return ErrInsufficientFunds
	}

	b.available = b.available.minus(amount)
	b.held = b.held.Add(amount)

	return nil
}

// Release moves amount from held back to available.
// Returns ErrInsufficientHeldFunds if held < amount.
func (b *Balance) Release(amount Amount) error {
	if !b.held.GreaterThanOrEqual(amount) {
		return ErrInsufficientHeldFunds
	}

	b.held = b.held.minus(amount)
	b.available = b.available.Add(amount)

	return nil
}

// Reimburse removes amount from held without touching available.
// Returns ErrInsufficientHeldFunds if held < amount.
func (b *Balance) Reimburse(amount Amount) error {
	if !b.held.GreaterThanOrEqual(amount) {
		return ErrInsufficientHeldFunds
	}

	b.held = b.held.minus(amount)

	return nil
}
