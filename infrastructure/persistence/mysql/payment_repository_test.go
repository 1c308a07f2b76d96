package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"ecommerce/domain/payment"
	"ecommerce/domain/shared"
	"ecommerce/infrastructure/persistence/mysql/po"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

// 已持久化的支付，version=2
func storedPayment() *payment.Payment {
	return payment.RebuildFromDTO(payment.ReconstructionDTO{
		ID:        "pay-1",
		OrderID:   "order-1",
		Amount:    shared.NewMoney(decimal.RequireFromString("20.00"), shared.DefaultCurrency),
		Status:    payment.StatusSuccess,
		Method:    payment.MethodAlipay,
		Version:   2,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
}

func TestPaymentRepository_Save_DuplicateOrderMapsToDuplicatePayment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	p, err := payment.NewPayment("order-1", shared.NewMoney(decimal.RequireFromString("20.00"), shared.DefaultCurrency), payment.MethodAlipay)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `payments`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'order-1' for key 'idx_payments_order_id'"})
	mock.ExpectRollback()

	err = repo.Save(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrDuplicatePayment)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.True(t, p.IsNew(), "failed insert keeps the new flag")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Save_OtherInsertErrorPassesThrough(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	p, err := payment.NewPayment("order-1", shared.NewMoney(decimal.RequireFromString("20.00"), shared.DefaultCurrency), payment.MethodWechat)
	require.NoError(t, err)

	lockTimeout := &mysqldriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `payments`").WillReturnError(lockTimeout)
	mock.ExpectRollback()

	err = repo.Save(context.Background(), p)
	assert.ErrorIs(t, err, lockTimeout)
	assert.NotErrorIs(t, err, payment.ErrDuplicatePayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Save_VersionedUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	p := storedPayment()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `payments` SET .* WHERE id = \\? AND version = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), p))
	assert.Equal(t, 3, p.Version())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Save_StaleVersion(t *testing.T) {
	tests := []struct {
		name    string
		count   int64
		wantErr error
	}{
		{"row gone", 0, payment.ErrPaymentNotFound},
		{"version moved", 1, shared.ErrConcurrentModification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewPaymentRepository(db)
			p := storedPayment()

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE `payments` SET").WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery("SELECT count\\(\\*\\) FROM `payments` WHERE id = \\?").
				WithArgs("pay-1").
				WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(tt.count))
			mock.ExpectRollback()

			err := repo.Save(context.Background(), p)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 2, p.Version(), "version unchanged on failed update")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStaleUpdateError_CountFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `payments`").WillReturnError(mysqldriver.ErrInvalidConn)

	err := staleUpdateError(db, &po.PaymentPO{}, "payment", "pay-1", payment.NewPaymentNotFoundError("pay-1"))
	assert.ErrorIs(t, err, mysqldriver.ErrInvalidConn)
	assert.NoError(t, mock.ExpectationsWereMet())
}
