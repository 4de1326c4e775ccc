package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	CorrelatedIDKey     contextKey = "correlation_id"
	LoggerKeyForContext contextKey = "logger"
)

// Logger is the service-wide structured logger.
type Logger struct {
	*slog.Logger
}

// NewLoggerWithJSONOutput logs JSON to stdout at the level named by LOG_LEVEL.
func NewLoggerWithJSONOutput() *Logger {
	return NewLogger(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))
}

func NewLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else is info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithCorrelationID(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.Logger.With(string(CorrelatedIDKey), GetOrGenerateCorrelationID(ctx)),
	}
}

// GetLoggerInstanceFromContext returns the request-scoped logger installed by
// the router, or fallbackLogger tagged with the context's correlation ID.
func GetLoggerInstanceFromContext(ctx context.Context, fallbackLogger *Logger) *Logger {
	if fallbackLogger == nil {
		fallbackLogger = NewLoggerWithJSONOutput()
	}
	if ctx == nil {
		return fallbackLogger
	}

	if l, ok := ctx.Value(LoggerKeyForContext).(*Logger); ok && l != nil {
		return l
	}

	return fallbackLogger.WithCorrelationID(ctx)
}
