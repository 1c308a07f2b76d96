package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ecommerce/infrastructure/persistence/mysql/po"
)

// Models 所有需要建表的持久化对象
func Models() []any {
	return []any{
		&po.ProductPO{},
		&po.PromotionPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.PaymentPO{},
		&po.OutboxEventPO{},
	}
}

// AutoMigrate 开发环境建表，生产环境应使用迁移脚本
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
