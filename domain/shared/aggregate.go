package shared

// AggregateRoot 聚合根接口
// 聚合根维护一致性边界，所有修改都必须经由它完成，并负责记录领域事件
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int

	// PullEvents 获取并清空聚合根记录的领域事件
	// 聚合根记录事件，UoW 在提交前把事件写入 outbox
	PullEvents() []DomainEvent
}

// IsAggregateRoot 类型标记函数
// 用法：var _ = IsAggregateRoot(&Promotion{})
func IsAggregateRoot(agg AggregateRoot) AggregateRoot {
	return agg
}

// EventRecorder 聚合内部复用的事件记录器
type EventRecorder struct {
	events []DomainEvent
}

// Record 记录一个领域事件
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents 返回已记录事件的副本并清空
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := make([]DomainEvent, len(r.events))
	copy(events, r.events)
	r.events = nil
	return events
}
