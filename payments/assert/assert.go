package assert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/metrics"
)

// ErrAssertionFailed is the sentinel error for failed assertions.
var ErrAssertionFailed = errors.New("assertion failed")

// SpanEventName is the span event recorded for a failed assertion.
const SpanEventName = "assertion.failed"

// MetricAssertionFailed counts failed assertions by component and operation.
var MetricAssertionFailed = metrics.Metric{
	Name:        "assertion_failed",
	Unit:        "1",
	Description: "Failed runtime assertions.",
}

// AssertionError represents a failed assertion.
type AssertionError struct {
	Message   string
	Component string
	Operation string
	Details   string
}

// Error returns the formatted assertion failure message.
func (e *AssertionError) Error() string {
	if e == nil {
		return ErrAssertionFailed.Error()
	}

	if e.Details == "" {
		return "assertion failed: " + e.Message
	}

	return "assertion failed: " + e.Message + " (" + e.Details + ")"
}

// Unwrap returns ErrAssertionFailed for errors.Is.
func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// Asserter checks invariants and reports failures through logs, metrics and
// the active span.
type Asserter struct {
	logger    log.Logger
	metrics   *metrics.Factory
	component string
	operation string
}

// New creates an Asserter. Nil logger or factory disable that channel.
func New(logger log.Logger, factory *metrics.Factory, component, operation string) *Asserter {
	if factory == nil {
		factory = metrics.NewNopFactory()
	}

	return &Asserter{
		logger:    log.OrNop(logger),
		metrics:   factory,
		component: component,
		operation: operation,
	}
}

// That returns an *AssertionError when ok is false. kv are alternating
// key/value pairs attached to the report.
func (a *Asserter) That(ctx context.Context, ok bool, msg string, kv ...any) error {
	if ok {
		return nil
	}

	return a.fail(ctx, msg, kv...)
}

func (a *Asserter) fail(ctx context.Context, msg string, kv ...any) error {
	if a == nil {
		return &AssertionError{Message: msg, Details: formatPairs(kv)}
	}

	details := formatPairs(kv)

	fields := []log.Field{
		log.String("component", a.component),
		log.String("operation", a.operation),
	}

	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, log.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}

	a.logger.Log(ctx, log.LevelError, "assertion failed: "+msg, fields...)

	if counter, err := a.metrics.Counter(MetricAssertionFailed); err == nil {
		_ = counter.WithAttributes(
			attribute.String("component", a.component),
			attribute.String("operation", a.operation),
		).AddOne(ctx)
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(SpanEventName, trace.WithAttributes(
			attribute.String("assertion.message", msg),
			attribute.String("assertion.component", a.component),
			attribute.String("assertion.operation", a.operation),
		))
		span.SetStatus(codes.Error, "assertion failed in "+a.component+"/"+a.operation)
	}

	return &AssertionError{
		Message:   msg,
		Component: a.component,
		Operation: a.operation,
		Details:   details,
	}
}

func formatPairs(kv []any) string {
	parts := make([]string, 0, (len(kv)+1)/2)

	for i := 0; i < len(kv); i += 2 {
		var value any = "MISSING_VALUE"
		if i+1 < len(kv) {
			value = kv[i+1]
		}

		parts = append(parts, fmt.Sprintf("%v=%v", kv[i], value))
	}

	return strings.Join(parts, " ")
}
