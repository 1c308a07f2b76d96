package promotion

import (
	"ecommerce/domain/shared"
)

const (
	EventPromotionCreated     = "promotion.created"
	EventPromotionActivated   = "promotion.activated"
	EventPromotionDeactivated = "promotion.deactivated"
	EventPromotionDeleted     = "promotion.deleted"
)

type PromotionCreatedEvent struct {
	shared.BaseEvent
	promotionType Type
	name          string
}

func NewPromotionCreatedEvent(id string, t Type, name string) *PromotionCreatedEvent {
	return &PromotionCreatedEvent{
		BaseEvent:     shared.NewBaseEvent(EventPromotionCreated, id),
		promotionType: t,
		name:          name,
	}
}

func (e *PromotionCreatedEvent) Payload() map[string]any {
	return map[string]any{"promotion_type": string(e.promotionType), "name": e.name}
}

// PromotionStatusChangedEvent activation, deactivation and deletion share this shape
type PromotionStatusChangedEvent struct {
	shared.BaseEvent
	from Status
	to   Status
}

func NewPromotionStatusChangedEvent(name, id string, from, to Status) *PromotionStatusChangedEvent {
	return &PromotionStatusChangedEvent{
		BaseEvent: shared.NewBaseEvent(name, id),
		from:      from,
		to:        to,
	}
}

func (e *PromotionStatusChangedEvent) From() Status { return e.from }
func (e *PromotionStatusChangedEvent) To() Status   { return e.to }

func (e *PromotionStatusChangedEvent) Payload() map[string]any {
	return map[string]any{"from": string(e.from), "to": string(e.to)}
}

type PromotionDeletedEvent struct {
	shared.BaseEvent
	promotionType Type
}

func NewPromotionDeletedEvent(id string, t Type) *PromotionDeletedEvent {
	return &PromotionDeletedEvent{
		BaseEvent:     shared.NewBaseEvent(EventPromotionDeleted, id),
		promotionType: t,
	}
}

func (e *PromotionDeletedEvent) Payload() map[string]any {
	return map[string]any{"promotion_type": string(e.promotionType)}
}
