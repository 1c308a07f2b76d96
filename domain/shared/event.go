package shared

import (
	"fmt"
	"time"
)

// DomainEvent 领域事件
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// EventPayload 事件携带的业务数据，outbox 序列化时使用
type EventPayload interface {
	Payload() map[string]any
}

// BaseEvent 事件公共字段，具体事件通过嵌入复用
type BaseEvent struct {
	name        string
	aggregateID string
	occurredOn  time.Time
}

// NewBaseEvent 以当前时间创建事件公共部分
func NewBaseEvent(name, aggregateID string) BaseEvent {
	return BaseEvent{name: name, aggregateID: aggregateID, occurredOn: time.Now()}
}

func (e BaseEvent) EventName() string      { return e.name }
func (e BaseEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e BaseEvent) GetAggregateID() string { return e.aggregateID }

// ValidateEvent 校验事件必填字段
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
