package logger

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog.Logger with bound context fields.
type Logger struct {
	logger zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json, console
	Output      io.Writer
	EnableColor bool
}

var globalLogger *Logger

// Initialize sets up the global logger.
func Initialize(cfg Config) {
	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))

	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.EnableColor,
		}
	}

	l := zerolog.New(output).With().Timestamp().Logger()
	globalLogger = &Logger{logger: l}
	log.Logger = l
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, initializing a console logger when none is
// configured yet.
func Get() *Logger {
	if globalLogger == nil {
		Initialize(Config{Level: "info", Format: "console", EnableColor: true})
	}
	return globalLogger
}

// WithContext returns a logger with additional bound fields.
func (l *Logger) WithContext(fields map[string]interface{}) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

// log emits one event. skip is the caller depth for the caller field.
func (l *Logger) log(level zerolog.Level, skip int, msg string, err error, fields []map[string]interface{}) {
	pc, file, line, _ := runtime.Caller(skip)
	event := l.logger.WithLevel(level).Str("caller", zerolog.CallerMarshalFunc(pc, file, line))
	if err != nil {
		event = event.Err(err)
	}
	if len(fields) > 0 {
		for k, v := range fields[0] {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
	if level == zerolog.FatalLevel {
		os.Exit(1)
	}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(zerolog.DebugLevel, 2, msg, nil, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(zerolog.InfoLevel, 2, msg, nil, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(zerolog.WarnLevel, 2, msg, nil, fields)
}

func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.log(zerolog.ErrorLevel, 2, msg, err, fields)
}

func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.log(zerolog.FatalLevel, 2, msg, err, fields)
}

// Package-level convenience functions on the global logger.

func Debug(msg string, fields ...map[string]interface{}) {
	Get().log(zerolog.DebugLevel, 2, msg, nil, fields)
}

func Info(msg string, fields ...map[string]interface{}) {
	Get().log(zerolog.InfoLevel, 2, msg, nil, fields)
}

func Warn(msg string, fields ...map[string]interface{}) {
	Get().log(zerolog.WarnLevel, 2, msg, nil, fields)
}

func Error(msg string, err error, fields ...map[string]interface{}) {
	Get().log(zerolog.ErrorLevel, 2, msg, err, fields)
}

func Fatal(msg string, err error, fields ...map[string]interface{}) {
	Get().log(zerolog.FatalLevel, 2, msg, err, fields)
}

// WithContext returns a global logger with additional bound fields.
func WithContext(fields map[string]interface{}) *Logger {
	return Get().WithContext(fields)
}
