// Package logging builds the zap logger shared by the CLI, the batch runner
// and the planner.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string // debug, info, warn, error
	Encoding    string // console or json
	Development bool
	OutputPaths []string // default stderr
}

func encoderConfig(dev bool) zapcore.EncoderConfig {
	ec := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if dev {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return ec
}

func parse(cfg Config) (zapcore.Level, string, error) {
	lvl := cfg.Level
	if lvl == "" {
		lvl = "info"
	}
	level, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return level, "", fmt.Errorf("invalid log level: %w", err)
	}
	enc := cfg.Encoding
	switch enc {
	case "":
		enc = "console"
	case "console", "json":
	default:
		return level, "", fmt.Errorf("invalid log encoding %q", cfg.Encoding)
	}
	return level, enc, nil
}

// New creates a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, enc, err := parse(cfg)
	if err != nil {
		return nil, err
	}
	outputPaths := cfg.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stderr"}
	}
	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         enc,
		EncoderConfig:    encoderConfig(cfg.Development),
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	if cfg.Development {
		logger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return logger, nil
}

// NewWriter creates a logger that writes to w, for tests and embedding.
func NewWriter(cfg Config, w io.Writer) (*zap.Logger, error) {
	level, enc, err := parse(cfg)
	if err != nil {
		return nil, err
	}
	var encoder zapcore.Encoder
	if enc == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig(false))
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig(false))
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level)), nil
}
