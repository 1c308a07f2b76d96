/*
Package promotion Promotion subdomain

A promotion is one of a closed set of discount variants (coupon, full gift,
full reduce, reduce). It is validated once at creation, moves through
draft -> active -> inactive, and is applied to an order amount by the
pure Calculate function.
*/
package promotion

import (
	"fmt"
	"time"

	"ecommerce/domain/shared"

	"github.com/google/uuid"
)

// Status promotion status enum
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	// StatusExpired is part of the stored vocabulary; no transition produces it
	StatusExpired Status = "expired"
)

// Promotion aggregate root
type Promotion struct {
	id                   string
	name                 string
	description          string
	status               Status
	startDate            time.Time
	endDate              time.Time
	usageCount           int
	applicableProducts   []string
	applicableCategories []string
	isActive             bool
	variant              Variant
	version              int
	createdAt            time.Time
	updatedAt            time.Time
	isNew                bool

	shared.EventRecorder
}

// NewParams attributes common to every promotion plus its variant
type NewParams struct {
	Name                 string
	Description          string
	StartDate            time.Time
	EndDate              time.Time
	ApplicableProducts   []string
	ApplicableCategories []string
	Variant              Variant
}

// NewPromotion creates a draft promotion.
// Only structural checks run here; temporal and catalog rules belong to Validator.
func NewPromotion(params NewParams) (*Promotion, error) {
	if params.Variant == nil {
		return nil, NewUnknownVariantError("<nil>")
	}
	if params.Name == "" {
		return nil, NewInvalidAttributeError("name", "name is required")
	}
	if err := params.Variant.checkBounds(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate promotion ID: %w", err)
	}

	now := time.Now()
	p := &Promotion{
		id:                   id.String(),
		name:                 params.Name,
		description:          params.Description,
		status:               StatusDraft,
		startDate:            params.StartDate,
		endDate:              params.EndDate,
		applicableProducts:   cloneStrings(params.ApplicableProducts),
		applicableCategories: cloneStrings(params.ApplicableCategories),
		isActive:             true,
		variant:              cloneVariant(params.Variant),
		createdAt:            now,
		updatedAt:            now,
		isNew:                true,
	}
	p.Record(NewPromotionCreatedEvent(p.id, p.Type(), p.name))
	return p, nil
}

// ReconstructionDTO repository-only view used to rebuild a stored promotion
type ReconstructionDTO struct {
	ID                   string
	Name                 string
	Description          string
	Status               Status
	StartDate            time.Time
	EndDate              time.Time
	UsageCount           int
	ApplicableProducts   []string
	ApplicableCategories []string
	IsActive             bool
	Variant              Variant
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RebuildFromDTO reconstructs a promotion loaded from storage
func RebuildFromDTO(dto ReconstructionDTO) *Promotion {
	return &Promotion{
		id:                   dto.ID,
		name:                 dto.Name,
		description:          dto.Description,
		status:               dto.Status,
		startDate:            dto.StartDate,
		endDate:              dto.EndDate,
		usageCount:           dto.UsageCount,
		applicableProducts:   cloneStrings(dto.ApplicableProducts),
		applicableCategories: cloneStrings(dto.ApplicableCategories),
		isActive:             dto.IsActive,
		variant:              cloneVariant(dto.Variant),
		version:              dto.Version,
		createdAt:            dto.CreatedAt,
		updatedAt:            dto.UpdatedAt,
	}
}

// ToDTO snapshot for repositories
func (p *Promotion) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:                   p.id,
		Name:                 p.name,
		Description:          p.description,
		Status:               p.status,
		StartDate:            p.startDate,
		EndDate:              p.endDate,
		UsageCount:           p.usageCount,
		ApplicableProducts:   cloneStrings(p.applicableProducts),
		ApplicableCategories: cloneStrings(p.applicableCategories),
		IsActive:             p.isActive,
		Variant:              cloneVariant(p.variant),
		Version:              p.version,
		CreatedAt:            p.createdAt,
		UpdatedAt:            p.updatedAt,
	}
}

// Activate draft -> active
func (p *Promotion) Activate() error {
	if p.status != StatusDraft {
		return NewInvalidStateTransitionError(p.status, StatusActive)
	}
	p.transition(EventPromotionActivated, StatusActive)
	return nil
}

// Deactivate active -> inactive
func (p *Promotion) Deactivate() error {
	if p.status != StatusActive {
		return NewInvalidStateTransitionError(p.status, StatusInactive)
	}
	p.transition(EventPromotionDeactivated, StatusInactive)
	return nil
}

func (p *Promotion) transition(event string, to Status) {
	from := p.status
	p.status = to
	p.updatedAt = time.Now()
	p.Record(NewPromotionStatusChangedEvent(event, p.id, from, to))
}

// MarkDeleted records the deletion event; the repository removes the row
func (p *Promotion) MarkDeleted() {
	p.Record(NewPromotionDeletedEvent(p.id, p.Type()))
}

// IncrementVersionForSave is called by repositories after a successful update
func (p *Promotion) IncrementVersionForSave() {
	p.version++
}

// ClearNewFlag is called by repositories after the first insert
func (p *Promotion) ClearNewFlag() {
	p.isNew = false
}

// AppliesTo reports whether any line item is covered by the applicable
// products or the applicable categories. Empty restrictions cover everything.
func (p *Promotion) AppliesTo(items []LineItem) bool {
	if len(p.applicableProducts) == 0 && len(p.applicableCategories) == 0 {
		return true
	}
	for _, item := range items {
		if contains(p.applicableProducts, item.ProductID) {
			return true
		}
		if item.Category != "" && contains(p.applicableCategories, item.Category) {
			return true
		}
	}
	return false
}

// RestrictsCategories 类目限制需要调用方为订单项补全类目
func (p *Promotion) RestrictsCategories() bool {
	return len(p.applicableCategories) > 0
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (p *Promotion) ID() string                     { return p.id }
func (p *Promotion) Name() string                   { return p.name }
func (p *Promotion) Description() string            { return p.description }
func (p *Promotion) Status() Status                 { return p.status }
func (p *Promotion) StartDate() time.Time           { return p.startDate }
func (p *Promotion) EndDate() time.Time             { return p.endDate }
func (p *Promotion) UsageCount() int                { return p.usageCount }
func (p *Promotion) ApplicableProducts() []string   { return cloneStrings(p.applicableProducts) }
func (p *Promotion) ApplicableCategories() []string { return cloneStrings(p.applicableCategories) }
func (p *Promotion) IsActive() bool                 { return p.isActive }
func (p *Promotion) Variant() Variant               { return cloneVariant(p.variant) }
func (p *Promotion) Version() int                   { return p.version }
func (p *Promotion) CreatedAt() time.Time           { return p.createdAt }
func (p *Promotion) UpdatedAt() time.Time           { return p.updatedAt }
func (p *Promotion) IsNew() bool                    { return p.isNew }

// Type is derived from the variant and can never change
func (p *Promotion) Type() Type {
	if p.variant == nil {
		return ""
	}
	return p.variant.Type()
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneVariant(v Variant) Variant {
	switch v := v.(type) {
	case *Coupon:
		c := *v
		return &c
	case *FullGift:
		g := *v
		g.GiftProducts = cloneStrings(v.GiftProducts)
		g.GiftQuantities = append([]int(nil), v.GiftQuantities...)
		return &g
	case *FullReduce:
		r := *v
		r.Tiers = append([]Tier(nil), v.Tiers...)
		return &r
	case *Reduce:
		r := *v
		return &r
	default:
		return v
	}
}

var _ shared.AggregateRoot = (*Promotion)(nil)
