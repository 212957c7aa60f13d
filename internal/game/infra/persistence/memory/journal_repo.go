package memory

import (
	"context"
	"sync"

	"Geocache/internal/game/entity"
)

// JournalRepository 把记录留在进程内，默认驱动，也用于测试。
type JournalRepository struct {
	mu       sync.Mutex
	events   []entity.ExchangeEvent
	failNext int
	failErr  error
}

func NewJournalRepository() *JournalRepository {
	return &JournalRepository{}
}

func (r *JournalRepository) Append(ctx context.Context, events []entity.ExchangeEvent) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext > 0 {
		r.failNext--
		return r.failErr
	}
	r.events = append(r.events, events...)
	return nil
}

// FailNext 让接下来 n 次 Append 返回 err。
func (r *JournalRepository) FailNext(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = n
	r.failErr = err
}

func (r *JournalRepository) Events() []entity.ExchangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ExchangeEvent(nil), r.events...)
}
