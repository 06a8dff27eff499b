package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LerianStudio/payments-engine/payments/ledger"
)

// Input column names.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

// ErrInvalidHeader is returned when the header row lacks a required column.
var ErrInvalidHeader = errors.New("invalid input header")

// ParseError reports a row that could not be decoded. Reading can continue
// past it.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingAmountError reports a deposit or withdrawal row without an amount.
type MissingAmountError struct {
	Kind ledger.Kind
	Tx   ledger.Tx
}

func (e *MissingAmountError) Error() string {
	return fmt.Sprintf("%s tx %d has no amount", e.Kind, e.Tx)
}

// InputRecord is one decoded input row.
type InputRecord struct {
	Line      int
	Kind      ledger.Kind
	Client    ledger.Client
	Tx        ledger.Tx
	Amount    ledger.Amount
	HasAmount bool
}

// Transaction maps the record to a ledger transaction. Amounts on dispute,
// resolve and chargeback rows are ignored.
func (r InputRecord) Transaction() (ledger.Transaction, error) {
	switch r.Kind {
	case ledger.KindDeposit, ledger.KindWithdrawal:
		if !r.HasAmount {
			return ledger.Transaction{}, &MissingAmountError{Kind: r.Kind, Tx: r.Tx}
		}

		if r.Kind == ledger.KindDeposit {
			return ledger.NewDeposit(r.Client, r.Tx, r.Amount), nil
		}

		return ledger.NewWithdrawal(r.Client, r.Tx, r.Amount), nil
	case ledger.KindDispute:
		return ledger.NewDispute(r.Client, r.Tx), nil
	case ledger.KindResolve:
		return ledger.NewResolve(r.Client, r.Tx), nil
	case ledger.KindChargeback:
		return ledger.NewChargeback(r.Client, r.Tx), nil
	default:
		return ledger.Transaction{}, fmt.Errorf("unsupported transaction kind %d", r.Kind)
	}
}

// Reader decodes transaction rows from CSV. The first row is a header; columns
// are located by name and surrounding whitespace is ignored in every field.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return &Reader{csv: cr}
}

// Read returns the next record. It returns io.EOF at the end of input and a
// *ParseError for a malformed row; any other error is fatal.
func (r *Reader) Read() (InputRecord, error) {
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return InputRecord{}, err
		}
	}

	fields, err := r.csv.Read()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return InputRecord{}, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
		}

		return InputRecord{}, err
	}

	line, _ := r.csv.FieldPos(0)

	rec, err := r.decode(fields)
	if err != nil {
		return InputRecord{}, &ParseError{Line: line, Err: err}
	}

	rec.Line = line

	return rec, nil
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		return err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{ColumnType, ColumnClient, ColumnTx} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("%w: missing column %q", ErrInvalidHeader, required)
		}
	}

	r.columns = columns

	return nil
}

func (r *Reader) field(fields []string, column string) (string, bool) {
	i, ok := r.columns[column]
	if !ok || i >= len(fields) {
		return "", false
	}

	return strings.TrimSpace(fields[i]), true
}

func (r *Reader) decode(fields []string) (InputRecord, error) {
	var rec InputRecord

	kind, ok := r.field(fields, ColumnType)
	if !ok {
		return rec, fmt.Errorf("missing %s", ColumnType)
	}

	parsedKind, err := ledger.ParseKind(kind)
	if err != nil {
		return rec, err
	}

	rec.Kind = parsedKind

	client, ok := r.field(fields, ColumnClient)
	if !ok {
		return rec, fmt.Errorf("missing %s", ColumnClient)
	}

	c, err := strconv.ParseUint(client, 10, 16)
	if err != nil {
		return rec, fmt.Errorf("invalid client %q: %w", client, err)
	}

	rec.Client = ledger.Client(c)

	tx, ok := r.field(fields, ColumnTx)
	if !ok {
		return rec, fmt.Errorf("missing %s", ColumnTx)
	}

	t, err := strconv.ParseUint(tx, 10, 32)
	if err != nil {
		return rec, fmt.Errorf("invalid tx %q: %w", tx, err)
	}

	rec.Tx = ledger.Tx(t)

	if amount, ok := r.field(fields, ColumnAmount); ok && amount != "" {
		parsed, err := ledger.ParseAmount(amount)
		if err != nil {
			return rec, err
		}

		rec.Amount = parsed
		rec.HasAmount = true
	}

	return rec, nil
}
