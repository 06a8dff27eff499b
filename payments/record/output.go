package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/LerianStudio/payments-engine/payments/ledger"
)

// AmountPlaces is the number of fractional digits written for every amount.
const AmountPlaces = 4

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat parses a format name. An empty name selects CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Header is the CSV header row.
var Header = []string{"client", "available", "held", "total", "locked"}

// AccountRecord is one output row. Amounts are already rendered with
// AmountPlaces fractional digits.
type AccountRecord struct {
	Client    uint16 `json:"client" cbor:"1,keyasint"`
	Available string `json:"available" cbor:"2,keyasint"`
	Held      string `json:"held" cbor:"3,keyasint"`
	Total     string `json:"total" cbor:"4,keyasint"`
	Locked    bool   `json:"locked" cbor:"5,keyasint"`
}

// NewAccountRecord renders a snapshot, truncating amounts to AmountPlaces.
func NewAccountRecord(s ledger.AccountSnapshot) AccountRecord {
	return AccountRecord{
		Client:    uint16(s.Client),
		Available: s.Available.StringFixed(AmountPlaces),
		Held:      s.Held.StringFixed(AmountPlaces),
		Total:     s.Total.StringFixed(AmountPlaces),
		Locked:    s.Locked,
	}
}

func (r AccountRecord) fields() []string {
	return []string{
		strconv.FormatUint(uint64(r.Client), 10),
		r.Available,
		r.Held,
		r.Total,
		strconv.FormatBool(r.Locked),
	}
}

// Writer encodes account snapshots.
type Writer struct {
	w      io.Writer
	format Format
	cbor   cbor.EncMode
}

// NewWriter returns a Writer producing format on w.
func NewWriter(w io.Writer, format Format) (*Writer, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	writer := &Writer{w: w, format: format}

	if format == FormatCBOR {
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("cbor encoder: %w", err)
		}

		writer.cbor = em
	}

	return writer, nil
}

// WriteAll writes every snapshot in the given order.
func (w *Writer) WriteAll(snapshots []ledger.AccountSnapshot) error {
	records := make([]AccountRecord, len(snapshots))
	for i, s := range snapshots {
		records[i] = NewAccountRecord(s)
	}

	switch w.format {
	case FormatJSON:
		return w.writeJSON(records)
	case FormatCBOR:
		return w.writeCBOR(records)
	default:
		return w.writeCSV(records)
	}
}

func (w *Writer) writeCSV(records []AccountRecord) error {
	cw := csv.NewWriter(w.w)

	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, r := range records {
		if err := cw.Write(r.fields()); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func (w *Writer) writeJSON(records []AccountRecord) error {
	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}

func (w *Writer) writeCBOR(records []AccountRecord) error {
	data, err := w.cbor.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode cbor: %w", err)
	}

	_, err = w.w.Write(data)

	return err
}
