package memory

import (
	"context"
	"time"

	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
)

type PromotionRepository struct {
	store *Store
}

func NewPromotionRepository(store *Store) *PromotionRepository {
	return &PromotionRepository{store: store}
}

func (r *PromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	dto := p.ToDTO()
	isNew := p.IsNew()
	expectedVersion := dto.Version
	if !isNew {
		dto.Version = expectedVersion + 1
	}

	err := r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.promotions[dto.ID]
		if isNew {
			if exists {
				return nil, shared.NewDomainError(shared.ErrConflict, "promotion", "id", "promotion already exists: "+dto.ID)
			}
			s.promotions[dto.ID] = dto
			return func() { delete(s.promotions, dto.ID) }, nil
		}

		if !exists {
			return nil, promotion.NewPromotionNotFoundError(dto.ID)
		}
		if prev.Version != expectedVersion {
			return nil, shared.NewConcurrentModificationError("promotion", dto.ID)
		}
		s.promotions[dto.ID] = dto
		return func() { s.promotions[dto.ID] = prev }, nil
	})
	if err != nil {
		return err
	}

	if !isNew {
		p.IncrementVersionForSave()
	}
	p.ClearNewFlag()
	return nil
}

func (r *PromotionRepository) FindByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.promotions[id]
	if !ok {
		return nil, promotion.NewPromotionNotFoundError(id)
	}
	return promotion.RebuildFromDTO(dto), nil
}

func (r *PromotionRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*promotion.Promotion]) ([]*promotion.Promotion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	promotions := make([]*promotion.Promotion, 0)
	for _, dto := range r.store.promotions {
		p := promotion.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, p) {
			promotions = append(promotions, p)
		}
	}
	newestFirst(promotions,
		func(p *promotion.Promotion) time.Time { return p.CreatedAt() },
		func(p *promotion.Promotion) string { return p.ID() },
	)
	return promotions, nil
}

// Delete 物理删除
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.promotions[id]
		if !exists {
			return nil, promotion.NewPromotionNotFoundError(id)
		}
		delete(s.promotions, id)
		return func() { s.promotions[id] = prev }, nil
	})
}

var _ promotion.Repository = (*PromotionRepository)(nil)
