package engine

import (
	"io"

	"github.com/google/uuid"

	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/record"
)

// Report is the outcome of one Process call.
type Report struct {
	RunID uuid.UUID
	// TraceID is the trace of the run's span, empty when tracing is off.
	TraceID  string
	Accounts []ledger.AccountSnapshot
	// Applied counts transactions the ledger accepted.
	Applied int
	// Rejected counts transactions the ledger refused.
	Rejected int
	// Dropped counts rows that never became a transaction.
	Dropped int
}

// Write renders the account snapshot in format.
func (r *Report) Write(w io.Writer, format record.Format) error {
	writer, err := record.NewWriter(w, format)
	if err != nil {
		return err
	}

	return writer.WriteAll(r.Accounts)
}
