// Package logger provides a structured, levelled logger built on log/slog.
//
// Records go to stderr so they never mix with command output. Development
// builds log human-readable text; APP_ENV=production switches to JSON.
// When LOG_MONGO_URI is set, Setup also fans every record out to a MongoDB
// collection so the audit trail outlives the process:
//
//	closeLogs, err := logger.Setup()
//	defer closeLogs()
//
// HTTP handlers use WithCtx to get a logger already tagged with request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("customer created", "customer_id", id)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/appaccess/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stderr, config.AppEnv())
	slog.SetDefault(L)
}

// New builds the base logger for env, writing to w.
func New(w io.Writer, env string) *slog.Logger {
	return slog.New(baseHandler(w, env))
}

func baseHandler(w io.Writer, env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Setup attaches the optional MongoDB sink. The returned func flushes and
// disconnects it; it is always safe to call.
func Setup() (func(), error) {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}, nil
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
	if err != nil {
		return func() {}, err
	}

	L = slog.New(NewMultiHandler(baseHandler(os.Stderr, config.AppEnv()), mh))
	slog.SetDefault(L)
	return mh.Close, nil
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
