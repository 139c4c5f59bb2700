// Package logging builds the logr.Logger used across kubeprox.
//
// Loggers are zap cores wrapped by zapr so that library code only depends on
// logr. Verbosity 1 in logr maps to zap's debug level.
package logging

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures a logger.
type Options struct {
	// Verbose enables V(1) messages such as state transitions and task events.
	Verbose bool

	// Format is FormatConsole or FormatJSON. Empty means console.
	Format string

	// Color enables colored level names in console output.
	Color bool

	// Timestamps adds a time field to console output. JSON always carries one.
	Timestamps bool
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) (logr.Logger, error) {
	zl, err := NewZap(w, opts)
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}

// NewZap creates the underlying zap logger.
func NewZap(w io.Writer, opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	var encoder zapcore.Encoder
	switch opts.Format {
	case "", FormatConsole:
		config := zap.NewDevelopmentEncoderConfig()
		config.ConsoleSeparator = " "
		config.StacktraceKey = ""
		config.CallerKey = ""
		if !opts.Timestamps {
			config.TimeKey = ""
		}
		if opts.Color {
			config.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(config)
	case FormatJSON:
		config := zap.NewProductionEncoderConfig()
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		config.StacktraceKey = ""
		encoder = zapcore.NewJSONEncoder(config)
	default:
		return nil, fmt.Errorf("unknown log format %q (want %q or %q)", opts.Format, FormatConsole, FormatJSON)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core), nil
}
