package ledger

// DisputeStatus is the dispute state of a stored deposit.
type DisputeStatus uint8

const (
	// DisputeClosed means no dispute is open. It is the initial state.
	DisputeClosed DisputeStatus = iota
	// DisputeOpened means the deposit's funds are under dispute.
	DisputeOpened
)

// String returns the lowercase name of the status.
func (s DisputeStatus) String() string {
	switch s {
	case DisputeClosed:
		return "closed"
	case DisputeOpened:
		return "opened"
	default:
		return "unknown"
	}
}

// Deposit is a credited amount an account keeps so it can be disputed later.
//
// Transitions:
//
//	Closed --OpenDispute--> Opened
//	Opened --CloseDispute--> Closed
//
// Deposits are never deleted, so a resolved deposit can be disputed again.
type Deposit struct {
	amount Amount
	status DisputeStatus
}

func newDeposit(amount Amount) Deposit {
	return Deposit{amount: amount, status: DisputeClosed}
}

// Amount returns the deposited amount.
func (d Deposit) Amount() Amount {
	return d.amount
}

// Status returns the dispute state.
func (d Deposit) Status() DisputeStatus {
	return d.status
}

// OpenDispute moves the deposit to DisputeOpened.
// Returns ErrAlreadyDisputed if a dispute is already open.
func (d *Deposit) OpenDispute() error {
	if d.status == DisputeOpened {
		return ErrAlreadyDisputed
	}

	d.status = DisputeOpened

	return nil
}

// CloseDispute moves the deposit back to DisputeClosed.
// Returns ErrNotDisputed if no dispute is open.
func (d *Deposit) CloseDispute() error {
	if d.status == DisputeClosed {
		return ErrNotDisputed
	}

	d.status = DisputeClosed

	return nil
}
