package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ecommerce/domain/payment"
	"ecommerce/domain/shared"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"concurrent modification", shared.NewConcurrentModificationError("order", "o-1"), true},
		{"wrapped concurrent modification", fmt.Errorf("save: %w", shared.ErrConcurrentModification), true},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"lock wait timeout", &mysqlDriver.MySQLError{Number: 1205}, true},
		{"duplicate entry", &mysqlDriver.MySQLError{Number: 1062}, false},
		{"gorm duplicate", gorm.ErrDuplicatedKey, false},
		{"duplicate payment", payment.NewDuplicatePaymentError("o-1"), false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err, cfg))
		})
	}
}

func TestIsRetryableError_RespectsFlags(t *testing.T) {
	cfg := DefaultConfig
	cfg.RetryOnConcurrentModification = false
	assert.False(t, IsRetryableError(shared.ErrConcurrentModification, cfg))
}

func TestExecuteWithRetry_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return shared.NewConcurrentModificationError("payment", "p-1")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnBusinessError(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return payment.NewDuplicatePaymentError("o-1")
	})

	assert.ErrorIs(t, err, payment.ErrDuplicatePayment)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return shared.ErrConcurrentModification
	})

	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Equal(t, DefaultConfig.MaxAttempts, calls)
}

func TestExecuteWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteWithRetry(ctx, fastConfig(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := DefaultConfig
	cfg.JitterEnabled = false

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 2*time.Second, ExponentialBackoffWithJitter(10, cfg))
}
