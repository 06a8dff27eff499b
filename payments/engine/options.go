package engine

import (
	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/metrics"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. A nil logger discards events.
func WithLogger(logger log.Logger) Option {
	return func(p *Processor) {
		p.logger = log.OrNop(logger)
	}
}

// WithMetrics sets the metrics factory. A nil factory is ignored.
func WithMetrics(factory *metrics.Factory) Option {
	return func(p *Processor) {
		if factory != nil {
			p.metrics = factory
		}
	}
}

// WithTracer sets the tracer. A nil tracer is ignored.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Processor) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithWorkers sets the number of shards. One or fewer runs a single ledger
// on the calling goroutine.
func WithWorkers(workers int) Option {
	return func(p *Processor) {
		p.workers = workers
	}
}

// WithLedgerOptions forwards options to every ledger the processor creates.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(p *Processor) {
		p.ledgerOpts = append(p.ledgerOpts, opts...)
	}
}
