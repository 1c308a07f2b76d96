package shared

import "context"

// UnitOfWork 管理事务边界与聚合事件收集。
// Execute 内的所有仓储写入要么全部提交，要么全部回滚。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory 每个业务操作创建独立的 UnitOfWork，避免并发请求共享注册列表
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
