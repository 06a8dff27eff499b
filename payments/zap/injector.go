package zap

import (
	"fmt"
	"strings"

	logpkg "github.com/LerianStudio/payments-engine/payments/log"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const callerSkipFrames = 1

// Environment selects the baseline logger profile.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// Config holds logger initialization inputs.
type Config struct {
	Environment Environment
	// Level is a log level name; empty means debug for development/local and
	// info otherwise.
	Level string
	// OTelLibraryName, when set, tees every event into the OpenTelemetry log bridge.
	OTelLibraryName string
	// OutputPaths defaults to stderr so stdout stays free for the account snapshot.
	OutputPaths []string
}

func (c Config) validate() error {
	switch c.Environment {
	case EnvironmentProduction, EnvironmentDevelopment, EnvironmentLocal:
		return nil
	default:
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
}

// New builds a JSON logger writing to stderr.
func New(cfg Config) (*Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid zap config: %w", err)
	}

	level, err := resolveLevel(cfg)
	if err != nil {
		return nil, err
	}

	baseConfig := buildConfigByEnvironment(cfg.Environment)
	baseConfig.Level = level
	baseConfig.DisableStacktrace = true
	baseConfig.OutputPaths = []string{"stderr"}
	baseConfig.ErrorOutputPaths = []string{"stderr"}

	if len(cfg.OutputPaths) > 0 {
		baseConfig.OutputPaths = cfg.OutputPaths
	}

	options := []zap.Option{zap.AddCallerSkip(callerSkipFrames)}

	if name := strings.TrimSpace(cfg.OTelLibraryName); name != "" {
		options = append(options, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelzap.NewCore(name))
		}))
	}

	built, err := baseConfig.Build(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger := Wrap(built)
	logger.atomicLevel = level

	return logger, nil
}

// LevelFor returns the level name a CLI should use: debug when verbose,
// otherwise error so rejected transactions stay silent.
func LevelFor(verbose bool, configured string) string {
	if verbose {
		if strings.TrimSpace(configured) != "" {
			return configured
		}

		return logpkg.LevelDebug.String()
	}

	return logpkg.LevelError.String()
}

func resolveLevel(cfg Config) (zap.AtomicLevel, error) {
	if strings.TrimSpace(cfg.Level) != "" {
		parsed, err := logpkg.ParseLevel(cfg.Level)
		if err != nil {
			return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", cfg.Level, err)
		}

		return zap.NewAtomicLevelAt(logLevelToZap(parsed)), nil
	}

	if cfg.Environment == EnvironmentDevelopment || cfg.Environment == EnvironmentLocal {
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}

	return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
}

func buildConfigByEnvironment(environment Environment) zap.Config {
	var cfg zap.Config
	if environment == EnvironmentDevelopment || environment == EnvironmentLocal {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return cfg
}
