package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey struct{}

var runIDKey ctxKey

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	Level(zerolog.WarnLevel).
	With().
	Timestamp().
	Logger()

// Init replaces the package logger. An empty or unknown level falls back to warn.
func Init(level string, w io.Writer) {
	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	logger = zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// InitConsole is Init with human-readable output to w.
func InitConsole(level string, w io.Writer) {
	Init(level, zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

// WithRunID tags ctx with a fresh run id, which every log line written
// with that ctx carries.
func WithRunID(ctx context.Context) context.Context {
	return context.WithValue(ctx, runIDKey, uuid.NewString())
}

func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

func event(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if id := RunID(ctx); id != "" {
		e = e.Str("run_id", id)
	}
	return e
}

func Debug(ctx context.Context, msg string) {
	event(ctx, logger.Debug()).Msg(msg)
}

func Debugf(ctx context.Context, format string, args ...any) {
	event(ctx, logger.Debug()).Msgf(format, args...)
}

func Info(ctx context.Context, msg string) {
	event(ctx, logger.Info()).Msg(msg)
}

func Infof(ctx context.Context, format string, args ...any) {
	event(ctx, logger.Info()).Msgf(format, args...)
}

func Warn(ctx context.Context, msg string) {
	event(ctx, logger.Warn()).Msg(msg)
}

func Warnf(ctx context.Context, format string, args ...any) {
	event(ctx, logger.Warn()).Msgf(format, args...)
}

func Error(ctx context.Context, err error, msg string) {
	event(ctx, logger.Error()).Err(err).Msg(msg)
}

func Errorf(ctx context.Context, err error, format string, args ...any) {
	event(ctx, logger.Error()).Err(err).Msg(fmt.Sprintf(format, args...))
}

func Fatal(ctx context.Context, err error, msg string) {
	event(ctx, logger.Fatal()).Err(err).Msg(msg)
}

// Command records one finished external command.
func Command(ctx context.Context, command string, elapsed time.Duration, err error) {
	e := logger.Debug()
	if err != nil {
		e = logger.Warn().Err(err)
	}
	event(ctx, e).
		Str("command", command).
		Dur("elapsed", elapsed).
		Msg("command finished")
}

// Logger exposes the underlying zerolog logger for adapters that need
// their own structured fields.
func Logger() *zerolog.Logger {
	return &logger
}
