package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/LerianStudio/payments-engine/payments/assert"
	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/metrics"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry"
	"github.com/LerianStudio/payments-engine/payments/record"
	"github.com/LerianStudio/payments-engine/payments/shard"
)

// Reasons attached to dropped rows in logs and metrics.
const (
	ReasonParse         = "parse"
	ReasonMissingAmount = "missing_amount"
)

// Processor reads a transaction stream, applies it to ledgers and reports
// the final account states.
type Processor struct {
	logger     log.Logger
	metrics    *metrics.Factory
	tracer     trace.Tracer
	workers    int
	ledgerOpts []ledger.Option
}

// New returns a Processor. Without options it runs one ledger sequentially
// and discards logs and metrics.
func New(opts ...Option) *Processor {
	p := &Processor{
		logger:  log.NewNop(),
		metrics: metrics.NewNopFactory(),
		tracer:  opentelemetry.Tracer(""),
		workers: 1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// sink is where accepted transactions go: a single ledger or a shard pool.
type sink interface {
	Submit(ctx context.Context, txn ledger.Transaction) error
	Close() ([]ledger.AccountSnapshot, error)
}

type sequential struct {
	ledger  *ledger.Ledger
	observe shard.Observer
}

func (s *sequential) Submit(ctx context.Context, txn ledger.Transaction) error {
	before := s.ledger.Len()
	err := s.ledger.Apply(txn)
	s.observe(ctx, txn, s.ledger.Len() > before, err)

	return nil
}

func (s *sequential) Close() ([]ledger.AccountSnapshot, error) {
	return s.ledger.Snapshot(), nil
}

// Process consumes in until EOF. Malformed rows are dropped and rejected
// transactions are counted; neither stops the run. An error is returned only
// when ctx is done, the input cannot be read, or a shard fails.
func (p *Processor) Process(ctx context.Context, in io.Reader) (*Report, error) {
	runID := uuid.New()

	ctx, span := p.tracer.Start(ctx, "payments.process", trace.WithAttributes(
		attribute.String("payments.run_id", runID.String()),
		attribute.Int("payments.workers", p.workers),
	))
	defer span.End()

	r := p.newRun(runID)

	s, err := p.newSink(ctx, r)
	if err != nil {
		opentelemetry.HandleSpanError(span, "failed to start ledger", err)

		return nil, err
	}

	return p.execute(ctx, span, r, s, in)
}

func (p *Processor) newRun(id uuid.UUID) *run {
	return &run{
		id:      id,
		start:   time.Now(),
		logger:  p.logger.With(log.String("run_id", id.String())),
		metrics: p.metrics,
	}
}

func (p *Processor) newSink(ctx context.Context, r *run) (sink, error) {
	if p.workers <= 1 {
		return &sequential{ledger: ledger.New(p.ledgerOpts...), observe: r.observe}, nil
	}

	pool, err := shard.NewPool(ctx, p.workers, r.observe, r.logger, p.ledgerOpts...)
	if err != nil {
		return nil, err
	}

	return pool, nil
}

// execute feeds in through s and turns the closed sink into a Report.
func (p *Processor) execute(ctx context.Context, span trace.Span, r *run, s sink, in io.Reader) (*Report, error) {
	feedErr := r.feed(ctx, record.NewReader(in), s)

	accounts, closeErr := s.Close()

	if err := firstError(closeErr, feedErr); err != nil {
		opentelemetry.HandleSpanError(span, "failed to process transactions", err)
		r.logger.Log(ctx, log.LevelError, "run aborted", log.Err(err))

		return nil, err
	}

	if err := p.checkRun(ctx, r, accounts); err != nil {
		opentelemetry.HandleSpanError(span, "ledger invariant violated", err)

		return nil, err
	}

	report := &Report{
		RunID:    r.id,
		TraceID:  opentelemetry.GetTraceIDFromContext(ctx),
		Accounts: accounts,
		Applied:  int(r.applied.Load()),
		Rejected: int(r.rejected.Load()),
		Dropped:  r.dropped,
	}

	elapsed := time.Since(r.start)

	_ = p.metrics.RecordAccountsTotal(ctx, len(accounts))
	_ = p.metrics.RecordRunDuration(ctx, elapsed)

	opentelemetry.HandleSpanEvent(span, "payments.run.completed",
		attribute.Int("payments.applied", report.Applied),
		attribute.Int("payments.rejected", report.Rejected),
		attribute.Int("payments.dropped", report.Dropped),
		attribute.Int("payments.accounts", len(accounts)),
	)

	r.logger.Log(ctx, log.LevelInfo, "run completed",
		log.Int("applied", report.Applied),
		log.Int("rejected", report.Rejected),
		log.Int("dropped", report.Dropped),
		log.Int("accounts", len(accounts)),
		log.Any("duration", elapsed),
	)

	return report, nil
}

// checkRun verifies that every submitted transaction was observed exactly
// once and that the snapshot holds each client once, in ascending order.
func (p *Processor) checkRun(ctx context.Context, r *run, accounts []ledger.AccountSnapshot) error {
	asserter := assert.New(r.logger, p.metrics, "engine", "process")

	applied, rejected := r.applied.Load(), r.rejected.Load()

	if err := asserter.That(ctx, applied+rejected == r.submitted,
		"applied plus rejected must equal submitted",
		"submitted", r.submitted,
		"applied", applied,
		"rejected", rejected,
	); err != nil {
		return err
	}

	for i := 1; i < len(accounts); i++ {
		if err := asserter.That(ctx, accounts[i-1].Client < accounts[i].Client,
			"snapshot clients must be unique and ascending",
			"previous", accounts[i-1].Client,
			"client", accounts[i].Client,
		); err != nil {
			return err
		}
	}

	return nil
}

// firstError prefers the shard failure over the feed error it caused.
func firstError(closeErr, feedErr error) error {
	if closeErr != nil {
		return closeErr
	}

	return feedErr
}

// run holds the counters of one Process call. observe may be called from
// several shard goroutines at once.
type run struct {
	id       uuid.UUID
	start    time.Time
	logger   log.Logger
	metrics  *metrics.Factory
	applied  atomic.Int64
	rejected atomic.Int64
	// submitted and dropped are only touched by feed.
	submitted int64
	dropped   int
}

func (r *run) feed(ctx context.Context, reader *record.Reader, s sink) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		var parseErr *record.ParseError
		if errors.As(err, &parseErr) {
			r.drop(ctx, parseErr.Line, ReasonParse, parseErr.Err)

			continue
		}

		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		txn, err := rec.Transaction()
		if err != nil {
			reason := ReasonParse

			var missing *record.MissingAmountError
			if errors.As(err, &missing) {
				reason = ReasonMissingAmount
			}

			r.drop(ctx, rec.Line, reason, err)

			continue
		}

		if err := s.Submit(ctx, txn); err != nil {
			return err
		}

		r.submitted++
	}
}

func (r *run) drop(ctx context.Context, line int, reason string, err error) {
	r.dropped++

	_ = r.metrics.RecordRecordDropped(ctx, reason)

	r.logger.Log(ctx, log.LevelWarn, "record dropped",
		log.Int("line", line),
		log.String("reason", reason),
		log.Err(err),
	)
}

func (r *run) observe(ctx context.Context, txn ledger.Transaction, created bool, err error) {
	if created {
		_ = r.metrics.RecordAccountCreated(ctx)
	}

	code := ledger.Code(err)
	_ = r.metrics.RecordTransaction(ctx, txn.Kind().String(), string(code))

	if err != nil {
		r.rejected.Add(1)

		r.logger.Log(ctx, log.LevelWarn, "transaction rejected",
			log.Client(uint16(txn.Client())),
			log.Tx(uint32(txn.Tx())),
			log.Kind(txn.Kind().String()),
			log.String("code", string(code)),
			log.Err(err),
		)

		return
	}

	r.applied.Add(1)

	if r.logger.Enabled(log.LevelDebug) {
		r.logger.Log(ctx, log.LevelDebug, "transaction applied",
			log.Client(uint16(txn.Client())),
			log.Tx(uint32(txn.Tx())),
			log.Kind(txn.Kind().String()),
		)
	}
}
