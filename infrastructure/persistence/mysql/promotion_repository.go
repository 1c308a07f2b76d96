package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
	"ecommerce/infrastructure/persistence/mysql/po"
	"ecommerce/infrastructure/persistence/specification"
)

// PromotionRepository MySQL/GORM 促销仓储
type PromotionRepository struct {
	db         *gorm.DB
	translator *specification.GormTranslator
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db, translator: specification.NewGormTranslator()}
}

func (r *PromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	return runInTx(ctx, r.db, func(tx *gorm.DB) error {
		return r.saveWithTx(tx, p)
	})
}

func (r *PromotionRepository) saveWithTx(tx *gorm.DB, p *promotion.Promotion) error {
	record := po.FromPromotionDomain(p)

	if p.IsNew() {
		if err := tx.Create(record).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewDomainError(shared.ErrConflict, "promotion", "id", "promotion already exists: "+p.ID())
			}
			return err
		}
		p.ClearNewFlag()
		return nil
	}

	expectedVersion := p.Version()
	result := tx.Model(&po.PromotionPO{}).
		Where("id = ? AND version = ?", p.ID(), expectedVersion).
		Updates(map[string]any{
			"status":      record.Status,
			"usage_count": record.UsageCount,
			"is_active":   record.IsActive,
			"version":     expectedVersion + 1,
			"updated_at":  record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleUpdateError(tx, &po.PromotionPO{}, "promotion", p.ID(), promotion.NewPromotionNotFoundError(p.ID()))
	}

	p.IncrementVersionForSave()
	return nil
}

func (r *PromotionRepository) FindByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var record po.PromotionPO
	result := withTx(ctx, r.db).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, promotion.NewPromotionNotFoundError(id)
		}
		return nil, result.Error
	}
	return record.ToDomain(), nil
}

// FindBySpecification 规格翻译成 WHERE 条件，按创建时间倒序
func (r *PromotionRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*promotion.Promotion]) ([]*promotion.Promotion, error) {
	db := withTx(ctx, r.db).Scopes(specification.Translate(r.translator, spec))
	if db.Error != nil {
		return nil, db.Error
	}

	var records []po.PromotionPO
	if err := db.Order("created_at DESC").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	promotions := make([]*promotion.Promotion, len(records))
	for i := range records {
		promotions[i] = records[i].ToDomain()
	}
	return promotions, nil
}

// Delete 物理删除
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	result := withTx(ctx, r.db).Delete(&po.PromotionPO{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return promotion.NewPromotionNotFoundError(id)
	}
	return nil
}

var _ promotion.Repository = (*PromotionRepository)(nil)
