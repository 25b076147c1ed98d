package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "production").Info("customer added", "customer_id", 1)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON, got %q", line)
	assert.Contains(t, line, `"customer_id":1`)
}

func TestNew_LocalIsTextAndDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "local").Debug("schema ensured")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="schema ensured"`)
}

func TestWithCtx(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := New(&buf, "local").With("request_id", "abc")
	ctx := InjectLogger(context.Background(), reqLog)
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(h).With("component", "demo")

	log.Info("info line")
	log.Warn("warn line")

	assert.Contains(t, a.String(), "info line")
	assert.Contains(t, a.String(), "warn line")
	assert.Contains(t, a.String(), "component=demo")
	assert.NotContains(t, b.String(), "info line")
	assert.Contains(t, b.String(), "warn line")
}

func TestDocumentFor(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := slog.NewRecord(now, slog.LevelError, "create order failed", 0)
	r.AddAttrs(slog.Int("customer_id", 9), slog.String("request_id", "rid-1"))

	doc := documentFor(r, []slog.Attr{slog.String("component", "repo")}, []string{"db"})

	require.Equal(t, now, doc.Time)
	assert.Equal(t, "ERROR", doc.Level)
	assert.Equal(t, "create order failed", doc.Msg)
	assert.Equal(t, "rid-1", doc.RequestID)
	assert.Equal(t, int64(9), doc.Attrs["db.customer_id"])
	assert.Equal(t, "repo", doc.Attrs["db.component"])
}

func TestDocumentFor_NoAttrs(t *testing.T) {
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "bare", 0)
	doc := documentFor(r, nil, nil)
	assert.Nil(t, doc.Attrs)
}

func TestSetup_WithoutMongoIsNoop(t *testing.T) {
	closeLogs, err := Setup()
	require.NoError(t, err)
	closeLogs()
}
