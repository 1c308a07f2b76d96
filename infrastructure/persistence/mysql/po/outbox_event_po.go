package po

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecommerce/domain/shared"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`          // e.g., "order.placed", "payment.succeeded"
	Payload     string    `gorm:"type:json;not null"`               // JSON serialized event data
	Status      string    `gorm:"size:20;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := SerializeEvent(event)
	if err != nil {
		return nil, err
	}

	eventID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate outbox event ID: %w", err)
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          eventID.String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SerializeEvent 公共信封字段加上事件自带的 Payload
// 事件字段与信封字段重名时以信封为准
func SerializeEvent(event shared.DomainEvent) (string, error) {
	eventData := map[string]any{}
	if p, ok := event.(shared.EventPayload); ok {
		for k, v := range p.Payload() {
			eventData[k] = v
		}
	}
	eventData["event_name"] = event.EventName()
	eventData["aggregate_id"] = event.GetAggregateID()
	eventData["occurred_on"] = event.OccurredOn()

	data, err := json.Marshal(eventData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToEventData Extract event data from outbox PO (for debugging/testing)
func (po *OutboxEventPO) ToEventData() (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(po.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
