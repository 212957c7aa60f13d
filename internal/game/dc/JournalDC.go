package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"Geocache/internal/game/app/port"
	"Geocache/internal/game/entity"
	"Geocache/modules/kit/logx"
)

const (
	defaultFlushEvery = 1000 * time.Millisecond
	defaultBatchSize  = 256
	defaultMaxPending = 1 << 16
	retryBackoff      = 200 * time.Millisecond
)

var ErrJournalClosed = errors.New("journal is closed")

// JournalDC 在内存里攒交换记录，由单个写协程按批落库。
// Record 不阻塞调用方（SessionActor），写库失败时整批放回队首重试。
// 队列最多保留 maxPending 条，超出时丢最旧的，丢弃条数由写协程汇总打 Warn。
type JournalDC struct {
	repo       port.JournalRepository
	log        logx.Logger
	flushEvery time.Duration
	batchSize  int
	maxPending int

	mu      sync.Mutex
	pending []entity.ExchangeEvent
	closed  bool
	dropped int // 上次汇报之后丢掉的条数
	lost    int // 累计丢弃

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

type Option func(*JournalDC)

func WithFlushEvery(d time.Duration) Option {
	return func(j *JournalDC) {
		if d > 0 {
			j.flushEvery = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(j *JournalDC) {
		if n > 0 {
			j.batchSize = n
		}
	}
}

// WithMaxPending 限制内存里未落库的条数，存储长时间不可用时保护进程内存。
func WithMaxPending(n int) Option {
	return func(j *JournalDC) {
		if n > 0 {
			j.maxPending = n
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(j *JournalDC) {
		if l != nil {
			j.log = l
		}
	}
}

func NewJournalDC(repo port.JournalRepository, opts ...Option) *JournalDC {
	d := &JournalDC{
		repo:       repo,
		log:        logx.NewNop(),
		flushEvery: defaultFlushEvery,
		batchSize:  defaultBatchSize,
		maxPending: defaultMaxPending,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxPending < d.batchSize {
		d.maxPending = d.batchSize
	}
	go d.writerLoop()
	return d
}

// Record 追加一条记录；攒满一批时唤醒写协程。
func (d *JournalDC) Record(ev entity.ExchangeEvent) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrJournalClosed
	}
	d.pending = append(d.pending, ev)
	d.trimLocked()
	full := len(d.pending) >= d.batchSize
	d.mu.Unlock()

	if full {
		d.signal()
	}
	return nil
}

// Pending 返回尚未写入的条数。
func (d *JournalDC) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Dropped 返回因队列已满累计丢弃的条数。
func (d *JournalDC) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lost
}

func (d *JournalDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Flush 立即唤醒写协程，不等待写完。
func (d *JournalDC) Flush() {
	d.signal()
}

// Close 停止接收新记录并等待剩余记录写完，ctx 到期时放弃等待。
func (d *JournalDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *JournalDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *JournalDC) popBatch() []entity.ExchangeEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return nil
	}
	n := len(d.pending)
	if n > d.batchSize {
		n = d.batchSize
	}
	batch := make([]entity.ExchangeEvent, n)
	copy(batch, d.pending[:n])
	d.pending = d.pending[n:]
	return batch
}

// requeueOnError 把失败的批次放回队首，保持写入顺序。
func (d *JournalDC) requeueOnError(batch []entity.ExchangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(batch, d.pending...)
	d.trimLocked()
}

// trimLocked 超过上限时丢掉最旧的记录，保留最新的 maxPending 条。
func (d *JournalDC) trimLocked() {
	over := len(d.pending) - d.maxPending
	if over <= 0 {
		return
	}
	kept := make([]entity.ExchangeEvent, d.maxPending)
	copy(kept, d.pending[over:])
	d.pending = kept
	d.dropped += over
	d.lost += over
}

func (d *JournalDC) reportDropped() {
	d.mu.Lock()
	n := d.dropped
	d.dropped = 0
	pending := len(d.pending)
	d.mu.Unlock()
	if n > 0 {
		d.log.Warn("journal pending full, dropped oldest events",
			zap.Int("dropped", n),
			zap.Int("pending", pending),
			zap.Int("max_pending", d.maxPending),
		)
	}
}

func (d *JournalDC) writerLoop() {
	defer close(d.done)

	ticker := time.NewTicker(d.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-ticker.C:
			d.consumePending(false)
			d.reportDropped()
		case <-d.stop:
			d.consumePending(true)
			d.reportDropped()
			return
		}
	}
}

// consumePending 持续写到队列为空。draining 时失败只重试一次，之后丢弃并记日志，
// 避免存储不可用时 Close 永远不返回。
func (d *JournalDC) consumePending(draining bool) {
	for {
		batch := d.popBatch()
		if batch == nil {
			return
		}
		err := d.repo.Append(context.TODO(), batch)
		if err == nil {
			continue
		}
		if draining {
			time.Sleep(retryBackoff)
			if err = d.repo.Append(context.TODO(), batch); err != nil {
				d.log.Error("journal drop batch on close",
					zap.Int("events", len(batch)),
					zap.Error(err),
				)
			}
			continue
		}
		d.log.Warn("journal append failed, retry later",
			zap.Int("events", len(batch)),
			zap.Error(err),
		)
		d.requeueOnError(batch)
		return
	}
}
