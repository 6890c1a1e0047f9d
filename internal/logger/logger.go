package logger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levels = map[Level]logrus.Level{
	LevelDebug: logrus.DebugLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelError: logrus.ErrorLevel,
}

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func SetLevel(level Level) {
	if l, ok := levels[level]; ok {
		std.SetLevel(l)
	}
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetFormat switches between "text" and "json" output.
func SetFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "":
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		std.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

type fieldsKey struct{}

// WithFields returns a context whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	fields := logrus.Fields{}
	for k, v := range fieldsFrom(ctx) {
		fields[k] = v
	}
	for k, v := range toFields(keyvals) {
		fields[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func fieldsFrom(ctx context.Context) logrus.Fields {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(logrus.Fields)
	return fields
}

func toFields(keyvals []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 == len(keyvals) {
			fields["extra"] = keyvals[i]
			break
		}
		fields[key] = keyvals[i+1]
	}
	return fields
}

func entry(ctx context.Context, keyvals []any) *logrus.Entry {
	e := logrus.NewEntry(std)
	if fields := fieldsFrom(ctx); len(fields) > 0 {
		e = e.WithFields(fields)
	}
	if len(keyvals) > 0 {
		e = e.WithFields(toFields(keyvals))
	}
	return e
}

func Debug(ctx context.Context, msg string, keyvals ...any) {
	entry(ctx, keyvals).Debug(msg)
}

func Info(ctx context.Context, msg string, keyvals ...any) {
	entry(ctx, keyvals).Info(msg)
}

func Warn(ctx context.Context, msg string, keyvals ...any) {
	entry(ctx, keyvals).Warn(msg)
}

// Error logs msg with err attached. err may be nil.
func Error(ctx context.Context, err error, msg string, keyvals ...any) {
	e := entry(ctx, keyvals)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}
