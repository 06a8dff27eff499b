package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Instruments emitted by the payments engine.
var (
	MetricTransactionsProcessed = Metric{
		Name:        "transactions_processed",
		Unit:        "1",
		Description: "Transactions applied to a ledger, by type and outcome.",
	}

	MetricRecordsDropped = Metric{
		Name:        "records_dropped",
		Unit:        "1",
		Description: "Input rows that could not be turned into a transaction.",
	}

	MetricAccountsCreated = Metric{
		Name:        "accounts_created",
		Unit:        "1",
		Description: "Accounts created lazily on first sight of a client.",
	}

	MetricAccountsTotal = Metric{
		Name:        "accounts_total",
		Unit:        "1",
		Description: "Accounts held by the ledger at the end of a run.",
	}

	MetricRunDuration = Metric{
		Name:        "run_duration",
		Unit:        "ms",
		Description: "Wall time spent processing one input stream.",
	}
)

// Attribute keys shared by the payments instruments.
const (
	AttrType    = attribute.Key("type")
	AttrOutcome = attribute.Key("outcome")
	AttrReason  = attribute.Key("reason")
)

// RecordTransaction counts one applied transaction. outcome is "ok" or the
// rejection code.
func (f *Factory) RecordTransaction(ctx context.Context, kind, outcome string) error {
	b, err := f.Counter(MetricTransactionsProcessed)
	if err != nil {
		return err
	}

	return b.WithAttributes(AttrType.String(kind), AttrOutcome.String(outcome)).AddOne(ctx)
}

// RecordRecordDropped counts one input row dropped before reaching a ledger.
func (f *Factory) RecordRecordDropped(ctx context.Context, reason string) error {
	b, err := f.Counter(MetricRecordsDropped)
	if err != nil {
		return err
	}

	return b.WithAttributes(AttrReason.String(reason)).AddOne(ctx)
}

// RecordAccountCreated counts one lazily created account.
func (f *Factory) RecordAccountCreated(ctx context.Context) error {
	b, err := f.Counter(MetricAccountsCreated)
	if err != nil {
		return err
	}

	return b.AddOne(ctx)
}

// RecordAccountsTotal sets the accounts gauge.
func (f *Factory) RecordAccountsTotal(ctx context.Context, n int) error {
	b, err := f.Gauge(MetricAccountsTotal)
	if err != nil {
		return err
	}

	return b.Set(ctx, int64(n))
}

// RecordRunDuration records the duration of one run in milliseconds.
func (f *Factory) RecordRunDuration(ctx context.Context, d time.Duration) error {
	b, err := f.Histogram(MetricRunDuration)
	if err != nil {
		return err
	}

	return b.Record(ctx, d.Milliseconds())
}
