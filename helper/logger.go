package helper

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger writes one JSON object per line with the service, hostname,
// action and request id of every entry.
type Logger struct {
	l *slog.Logger
}

func NewLogger(service string, w io.Writer, level string) *Logger {
	lvl := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		lvl = slog.LevelDebug
	}
	hostname, _ := os.Hostname()

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				a.Key = "timestamp"
				a.Value = slog.StringValue(a.Value.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	})
	return &Logger{l: slog.New(h).With("service", service, "hostname", hostname)}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewLogger("discard", io.Discard, "info")
}

func (l *Logger) Debug(requestID, action, message string, args ...any) {
	l.l.Debug(message, l.attrs(requestID, action, args)...)
}

func (l *Logger) Info(requestID, action, message string, args ...any) {
	l.l.Info(message, l.attrs(requestID, action, args)...)
}

func (l *Logger) Warn(requestID, action, message string, args ...any) {
	l.l.Warn(message, l.attrs(requestID, action, args)...)
}

func (l *Logger) Error(requestID, action, message string, err error, args ...any) {
	l.ErrorStack(requestID, action, message, err, "", args...)
}

// ErrorStack is Error with a captured stack trace attached.
func (l *Logger) ErrorStack(requestID, action, message string, err error, stack string, args ...any) {
	errAttrs := []any{}
	if err != nil {
		errAttrs = append(errAttrs, "msg", err.Error())
	}
	if stack != "" {
		errAttrs = append(errAttrs, "stack", stack)
	}
	attrs := l.attrs(requestID, action, args)
	if len(errAttrs) > 0 {
		attrs = append(attrs, slog.Group("error", errAttrs...))
	}
	l.l.Error(message, attrs...)
}

func (l *Logger) attrs(requestID, action string, args []any) []any {
	out := make([]any, 0, len(args)+4)
	out = append(out, "action", action, "request_id", requestID)
	return append(out, args...)
}
