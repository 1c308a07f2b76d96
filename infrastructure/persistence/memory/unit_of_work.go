package memory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ecommerce/domain/shared"
	"ecommerce/infrastructure/persistence/retry"
	"ecommerce/pkg/logger"
)

// OutboxRepository 事件与业务写入在同一次提交中生效
type OutboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	record := OutboxRecord{
		EventName:   event.EventName(),
		AggregateID: event.GetAggregateID(),
		OccurredOn:  event.OccurredOn(),
	}
	if p, ok := event.(shared.EventPayload); ok {
		record.Payload = p.Payload()
	}
	return r.store.write(ctx, appendOutbox(record))
}

// UnitOfWork 内存工作单元
type UnitOfWork struct {
	store       *Store
	outbox      *OutboxRepository
	aggregates  []shared.AggregateRoot
	retryConfig retry.Config
}

func NewUnitOfWork(store *Store, retryConfig retry.Config) *UnitOfWork {
	return &UnitOfWork{
		store:       store,
		outbox:      NewOutboxRepository(store),
		retryConfig: retryConfig,
	}
}

// Execute 暂存 fn 内的写入和已注册聚合的事件，最后一次性提交
// 乐观锁冲突时整体重试
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	executeOnce := func(ctx context.Context) error {
		u.aggregates = u.aggregates[:0]

		t := &txn{}
		txCtx := context.WithValue(ctx, txKey{}, t)

		if err := fn(txCtx); err != nil {
			return err
		}

		var events []shared.DomainEvent
		for _, agg := range u.aggregates {
			for _, event := range agg.PullEvents() {
				if err := u.outbox.SaveEvent(txCtx, event); err != nil {
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
				events = append(events, event)
			}
		}

		if err := u.store.commit(t.mutations); err != nil {
			return err
		}

		for _, event := range events {
			logger.Debug("Outbox event stored",
				zap.String("event_type", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
			)
		}
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// UnitOfWorkFactory 每次业务操作一个新的 UnitOfWork
type UnitOfWorkFactory struct {
	store       *Store
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(store *Store, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store, f.retryConfig)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
	_ shared.OutboxRepository  = (*OutboxRepository)(nil)
)
