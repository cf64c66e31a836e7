package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the project-wide structured logger. Every line carries the
// service name, an action tag, and the request id from the context when one
// was set (useful for HTTP/broker hops).
type Logger struct {
	service string
	zl      zerolog.Logger
}

// NewLogger creates a structured JSON logger for the given service.
func NewLogger(service string) *Logger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	zl := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname).
		Logger()

	return &Logger{service: service, zl: zl}
}

// Define an unexported type for context keys.
type ctxKey string

// requestIDKey is the context key for the request ID.
const requestIDKey ctxKey = "request_id"

// WithRequestID returns a context carrying a request id.
func (logger *Logger) WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// requestIDFrom returns the request id saved in the context, if any.
func requestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(requestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// emit attaches the shared fields and writes one line.
func (logger *Logger) emit(e *zerolog.Event, ctx context.Context, action, msg string, details any) {
	e = e.Str("action", action)
	if rid := requestIDFrom(ctx); rid != "" {
		e = e.Str("request_id", rid)
	}
	if details != nil {
		e = e.Interface("details", details)
	}
	e.Msg(msg)
}

// -- Logger helper functions --

func (logger *Logger) Info(ctx context.Context, action, msg string, details any) {
	logger.emit(logger.zl.Info(), ctx, action, msg, details)
}

func (logger *Logger) Debug(ctx context.Context, action, msg string, details any) {
	logger.emit(logger.zl.Debug(), ctx, action, msg, details)
}

func (logger *Logger) Warn(ctx context.Context, action, msg string, details any) {
	logger.emit(logger.zl.Warn(), ctx, action, msg, details)
}

func (logger *Logger) Error(ctx context.Context, action, msg string, err error) {
	logger.emit(logger.zl.Error().Err(err), ctx, action, msg, nil)
}
