package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "posledger/internal/core/context"
)

func TestFromContext_AttachesTraceAndUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext("req-1", "trace-1"))
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u1", Username: "admin"})

	Info(ctx, "bill created", "number", "SB-2026-00001")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "u1", fields["user_id"])
	assert.Equal(t, "admin", fields["username"])
	assert.Equal(t, "SB-2026-00001", fields["number"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
}
