package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/LerianStudio/payments-engine/payments"
	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry"
	"github.com/LerianStudio/payments-engine/payments/record"
)

// Config is read from the environment first; flags override it.
type Config struct {
	EnvName           string `env:"ENV_NAME"`
	LogLevel          string `env:"LOG_LEVEL"`
	Workers           int    `env:"PAYMENTS_WORKERS"`
	OutputFormat      string `env:"PAYMENTS_OUTPUT_FORMAT"`
	DuplicateDeposits string `env:"PAYMENTS_DUPLICATE_DEPOSITS"`
	OTelLibraryName   string `env:"OTEL_LIBRARY_NAME"`

	Verbose   bool
	InputPath string

	format record.Format
	policy ledger.DuplicatePolicy
}

func defaultConfig() Config {
	return Config{
		EnvName:           "production",
		Workers:           1,
		OutputFormat:      string(record.FormatCSV),
		DuplicateDeposits: ledger.OverwriteDuplicates.String(),
		OTelLibraryName:   opentelemetry.DefaultLibraryName,
	}
}

func loadConfig(args []string, stderr io.Writer) (Config, error) {
	cfg := defaultConfig()

	if err := payments.SetConfigFromEnvVars(&cfg); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("payments", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: payments [flags] [transactions.csv]")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Verbose, "v", false, "log rejected transactions and dropped rows to stderr")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "same as -v")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of ledger shards")
	fs.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "output format: csv, json or cbor")
	fs.StringVar(&cfg.DuplicateDeposits, "duplicates", cfg.DuplicateDeposits, "duplicate deposit policy: overwrite or reject")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// flag stops at the first positional argument; resume parsing after it
	// so flags may follow the input path.
	for fs.NArg() > 0 {
		if cfg.InputPath != "" {
			return Config{}, fmt.Errorf("expected at most one input file, got %q and %q", cfg.InputPath, fs.Arg(0))
		}

		cfg.InputPath = fs.Arg(0)

		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	format, err := record.ParseFormat(c.OutputFormat)
	if err != nil {
		return err
	}

	policy, err := ledger.ParseDuplicatePolicy(c.DuplicateDeposits)
	if err != nil {
		return err
	}

	c.format = format
	c.policy = policy

	return nil
}
