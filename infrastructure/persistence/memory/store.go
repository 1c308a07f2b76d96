/*
Package memory 内存持久化实现，用于 database.type=mock 与测试

所有仓储共享一个 Store。在 UnitOfWork.Execute 内的写操作先暂存在事务中，
提交时在同一把锁下依次应用；任何一步失败（版本冲突、订单重复支付）都会
回滚已应用的步骤，因此多个聚合的写入要么全部可见，要么全部不可见。
事务内的读取直接读已提交数据，不会看到本事务暂存的写入。
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ecommerce/domain/order"
	"ecommerce/domain/payment"
	"ecommerce/domain/promotion"
)

// OutboxRecord 已提交的领域事件
type OutboxRecord struct {
	EventName   string
	AggregateID string
	OccurredOn  time.Time
	Payload     map[string]any
}

// Store 内存数据，保存聚合的快照而不是指针，避免调用方绕过仓储修改数据
type Store struct {
	mu sync.RWMutex

	promotions      map[string]promotion.ReconstructionDTO
	orders          map[string]order.ReconstructionDTO
	payments        map[string]payment.ReconstructionDTO
	paymentsByOrder map[string]string // 唯一索引 order_id -> payment_id
	outbox          []OutboxRecord

	commitErrs []error // 依次作为后续提交的结果返回，用于模拟死锁等存储层失败
}

func NewStore() *Store {
	return &Store{
		promotions:      make(map[string]promotion.ReconstructionDTO),
		orders:          make(map[string]order.ReconstructionDTO),
		payments:        make(map[string]payment.ReconstructionDTO),
		paymentsByOrder: make(map[string]string),
	}
}

// Outbox 返回已提交事件的副本
func (s *Store) Outbox() []OutboxRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]OutboxRecord, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// FailNextCommits 之后的 len(errs) 次提交不应用任何写入，依次返回 errs
func (s *Store) FailNextCommits(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErrs = append(s.commitErrs, errs...)
}

// mutation 在持有写锁时执行，返回用于回滚的 undo
type mutation func(s *Store) (undo func(), err error)

type txKey struct{}

// txn 暂存一个工作单元内的所有写入
type txn struct {
	mutations []mutation
}

func txnFromContext(ctx context.Context) *txn {
	if t, ok := ctx.Value(txKey{}).(*txn); ok {
		return t
	}
	return nil
}

// write 事务内暂存，事务外立即应用
func (s *Store) write(ctx context.Context, m mutation) error {
	if t := txnFromContext(ctx); t != nil {
		t.mutations = append(t.mutations, m)
		return nil
	}
	return s.commit([]mutation{m})
}

// commit 依次应用，失败时逆序回滚已应用的部分
func (s *Store) commit(mutations []mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.commitErrs) > 0 {
		err := s.commitErrs[0]
		s.commitErrs = s.commitErrs[1:]
		return err
	}

	undos := make([]func(), 0, len(mutations))
	for _, m := range mutations {
		undo, err := m(s)
		if err != nil {
			for i := len(undos) - 1; i >= 0; i-- {
				undos[i]()
			}
			return err
		}
		undos = append(undos, undo)
	}
	return nil
}

func appendOutbox(record OutboxRecord) mutation {
	return func(s *Store) (func(), error) {
		s.outbox = append(s.outbox, record)
		n := len(s.outbox) - 1
		return func() { s.outbox = s.outbox[:n] }, nil
	}
}

// newestFirst 按创建时间倒序，时间相同按 ID 倒序（v7 UUID 单调递增）
func newestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}
