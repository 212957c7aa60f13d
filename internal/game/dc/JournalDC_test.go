package dc

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/infra/persistence/memory"
	"Geocache/modules/kit/logx"
)

func event(id int64) entity.ExchangeEvent {
	return entity.ExchangeEvent{ID: id, SessionID: "s", Cell: grid.Cell{I: int(id)}, Policy: entity.PolicySwap, At: time.Now()}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("等待超时")
}

func TestJournalDC_攒满一批立即写入(t *testing.T) {
	repo := memory.NewJournalRepository()
	d := NewJournalDC(repo, WithBatchSize(3), WithFlushEvery(time.Hour))
	defer d.Close(context.Background())

	for i := int64(1); i <= 3; i++ {
		if err := d.Record(event(i)); err != nil {
			t.Fatalf("Record 失败: %v", err)
		}
	}
	waitFor(t, func() bool { return len(repo.Events()) == 3 })
}

func TestJournalDC_定时刷写(t *testing.T) {
	repo := memory.NewJournalRepository()
	d := NewJournalDC(repo, WithBatchSize(100), WithFlushEvery(20*time.Millisecond))
	defer d.Close(context.Background())

	_ = d.Record(event(1))
	waitFor(t, func() bool { return len(repo.Events()) == 1 })
}

func TestJournalDC_写失败后按原顺序重试(t *testing.T) {
	repo := memory.NewJournalRepository()
	repo.FailNext(2, errors.New("db down"))
	d := NewJournalDC(repo, WithBatchSize(2), WithFlushEvery(20*time.Millisecond))
	defer d.Close(context.Background())

	for i := int64(1); i <= 4; i++ {
		_ = d.Record(event(i))
	}
	waitFor(t, func() bool { return len(repo.Events()) == 4 })
	for k, ev := range repo.Events() {
		if ev.ID != int64(k+1) {
			t.Fatalf("期望按顺序写入, 第 %d 条是 %d", k, ev.ID)
		}
	}
}

func TestJournalDC_关闭时写完剩余记录(t *testing.T) {
	repo := memory.NewJournalRepository()
	d := NewJournalDC(repo, WithBatchSize(100), WithFlushEvery(time.Hour))
	for i := int64(1); i <= 5; i++ {
		_ = d.Record(event(i))
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close 失败: %v", err)
	}
	if n := len(repo.Events()); n != 5 {
		t.Fatalf("期望 5 条, got %d", n)
	}
	if err := d.Record(event(6)); !errors.Is(err, ErrJournalClosed) {
		t.Fatalf("关闭后期望 ErrJournalClosed, got %v", err)
	}
	if d.Pending() != 0 {
		t.Fatalf("关闭后不应有待写记录")
	}
}

func TestJournalDC_存储持续不可用时队列有上限(t *testing.T) {
	repo := memory.NewJournalRepository()
	repo.FailNext(1<<30, errors.New("db down"))
	core, logs := observer.New(zapcore.WarnLevel)
	d := NewJournalDC(repo,
		WithBatchSize(10),
		WithMaxPending(50),
		WithFlushEvery(10*time.Millisecond),
		WithLogger(logx.NewZapLogger(zap.New(core))),
	)

	for i := int64(1); i <= 1000; i++ {
		_ = d.Record(event(i))
		if n := d.Pending(); n > 50 {
			t.Fatalf("期望待写不超过 50, got %d", n)
		}
	}
	// 写协程手上最多还有一批未放回
	if d.Dropped() < 1000-50-10 {
		t.Fatalf("期望至少丢弃 940 条, got %d", d.Dropped())
	}
	waitFor(t, func() bool { return logs.FilterMessage("journal pending full, dropped oldest events").Len() > 0 })

	// 存储恢复后写入的是最新的那些记录
	repo.FailNext(0, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close 失败: %v", err)
	}
	events := repo.Events()
	if len(events) == 0 || len(events) > 50 {
		t.Fatalf("期望写入不超过 50 条, got %d", len(events))
	}
	if last := events[len(events)-1].ID; last != 1000 {
		t.Fatalf("期望保留最新记录, 最后一条是 %d", last)
	}
	if d.Pending() != 0 {
		t.Fatalf("关闭后不应有待写记录")
	}
}
