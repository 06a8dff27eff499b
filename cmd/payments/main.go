// Command payments applies a CSV stream of transactions and prints the
// resulting client accounts.
//
//	payments [-v] [-workers N] [-format csv|json|cbor] [transactions.csv]
//
// The input is read from stdin when no file is given. Account records go to
// stdout; logs go to stderr and only appear with -v.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	"github.com/LerianStudio/payments-engine/payments/engine"
	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/metrics"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry"
	pzap "github.com/LerianStudio/payments-engine/payments/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}

	if err != nil {
		fmt.Fprintf(stderr, "payments: %v\n", err)
		return 1
	}

	logger, err := pzap.New(pzap.Config{
		Environment:     pzap.Environment(cfg.EnvName),
		Level:           pzap.LevelFor(cfg.Verbose, cfg.LogLevel),
		OTelLibraryName: cfg.OTelLibraryName,
	})
	if err != nil {
		fmt.Fprintf(stderr, "payments: %v\n", err)
		return 1
	}

	defer func() { _ = logger.Sync(context.Background()) }()

	input := stdin

	if cfg.InputPath != "" {
		f, err := os.Open(cfg.InputPath)
		if err != nil {
			fmt.Fprintf(stderr, "payments: %v\n", err)
			return 1
		}

		defer f.Close()

		input = f
	}

	factory, err := metrics.NewFactory(otel.GetMeterProvider().Meter(cfg.OTelLibraryName), logger)
	if err != nil {
		factory = metrics.NewNopFactory()
	}

	processor := engine.New(
		engine.WithLogger(logger),
		engine.WithMetrics(factory),
		engine.WithTracer(opentelemetry.Tracer(cfg.OTelLibraryName)),
		engine.WithWorkers(cfg.Workers),
		engine.WithLedgerOptions(ledger.WithDuplicateDeposits(cfg.policy)),
	)

	report, err := processor.Process(ctx, input)
	if err != nil {
		logger.Log(ctx, log.LevelError, "processing failed", log.Err(err))
		fmt.Fprintf(stderr, "payments: %v\n", err)

		return 1
	}

	if err := report.Write(stdout, cfg.format); err != nil {
		fmt.Fprintf(stderr, "payments: write output: %v\n", err)
		return 1
	}

	return 0
}
