package mysql

import (
	"context"
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"ecommerce/domain/shared"
	"ecommerce/infrastructure/persistence"
)

// mysqlErrDuplicateEntry ER_DUP_ENTRY
const mysqlErrDuplicateEntry = 1062

// withTx returns the transaction from context if available, otherwise the default db
func withTx(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// runInTx 已在 UoW 事务中时直接复用，否则自己开一个事务保证原子性
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// staleUpdateError 条件更新未命中任何行时区分记录不存在与版本冲突
func staleUpdateError(tx *gorm.DB, model any, entity, id string, notFound error) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return shared.NewConcurrentModificationError(entity, id)
}
