package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"ecommerce/infrastructure/persistence"
)

func messages(logs []string) map[string]bool {
	found := make(map[string]bool, len(logs))
	for _, m := range logs {
		found[m] = true
	}
	return found
}

func TestGormLoggerAdapter_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"warn level", gormlogger.Warn, false, false},
		{"info level", gormlogger.Info, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observe(t, zapcore.DebugLevel)
			adapter := NewGormLoggerAdapter(tt.level)
			ctx := context.Background()

			adapter.Info(ctx, "test info %s", "message")
			adapter.Warn(ctx, "test warn message")
			adapter.Error(ctx, "test error message")
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM orders", 1
			}, nil)

			var got []string
			for _, e := range logs.All() {
				got = append(got, e.Message)
			}
			found := messages(got)

			assert.Equal(t, tt.wantInfo, found["test info message"])
			assert.True(t, found["test warn message"])
			assert.True(t, found["test error message"])
			assert.Equal(t, tt.wantTrace, found["SQL query executed"])
		})
	}
}

func TestGormLoggerAdapter_SlowQueryAndRequestID(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	adapter := NewGormLoggerAdapterWithConfig(gormlogger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
	ctx := persistence.ContextWithRequestID(context.Background(), "test-request-123")

	adapter.Trace(ctx, time.Now().Add(-50*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM payments", 1
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM promotions WHERE id = 'missing'", 0
	}, gormlogger.ErrRecordNotFound)

	entries := logs.All()
	require.Len(t, entries, 1, "record not found must be ignored")
	assert.Equal(t, "Slow SQL query", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "test-request-123", entries[0].ContextMap()["request_id"])
}

func TestGormLoggerAdapter_ErrorsAndSilent(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	ctx := context.Background()

	NewGormLoggerAdapter(gormlogger.Warn).Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO payments", 0
	}, errors.New("Duplicate entry 'o-1' for key 'idx_payments_order_id'"))

	NewGormLoggerAdapter(gormlogger.Warn).LogMode(gormlogger.Silent).Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO payments", 0
	}, errors.New("ignored"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Database operation failed", entries[0].Message)
	assert.Equal(t, "INSERT INTO payments", entries[0].ContextMap()["sql"])
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, ParseGormLevel("debug"))
	assert.Equal(t, gormlogger.Silent, ParseGormLevel("silent"))
	assert.Equal(t, gormlogger.Warn, ParseGormLevel(""))
}
