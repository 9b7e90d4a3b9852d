// Package logger wraps zerolog with the small structured API the rest
// of the codebase uses: message plus alternating key/value fields.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

type Config struct {
	Level      Level
	TimeFormat string
	Output     io.Writer
}

type Logger struct {
	zl zerolog.Logger
}

// NewLogger builds a console-writer logger. A nil config means info
// level to stdout with RFC3339 timestamps.
func NewLogger(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{
			Level:      InfoLevel,
			TimeFormat: time.RFC3339,
			Output:     os.Stdout,
		}
	}

	console := zerolog.ConsoleWriter{
		Out:        cfg.Output,
		TimeFormat: cfg.TimeFormat,
	}
	zl := zerolog.New(console).
		Level(cfg.Level).
		With().
		Timestamp().
		Caller().
		Logger()
	return &Logger{zl: zl}
}

// WithFields returns a child logger carrying the fields on every line.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(err error, msg string, fields ...interface{}) {
	l.zl.Error().Err(err).Fields(fields).Msg(msg)
}

// Zerolog exposes the underlying zerolog logger for packages that want
// the native API.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}
