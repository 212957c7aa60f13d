package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Geocache/internal/game/app"
	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/render"
	"Geocache/internal/game/service"
	"Geocache/internal/shared/serverconfig"
	"Geocache/modules/kit/logx"
	"Geocache/modules/kit/tracex"
)

func newRuntime(t *testing.T, policy string, idle time.Duration, sinks render.Factory) (*Runtime, *service.GameService) {
	t.Helper()
	cfg := serverconfig.Default().Game
	cfg.Policy = policy
	svc, err := service.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig 失败: %v", err)
	}
	r := NewRuntime(svc, sinks, idle, time.Second)
	t.Cleanup(r.Shutdown)
	return r, svc
}

func occupiedCell(t *testing.T, r *Runtime) grid.Cell {
	t.Helper()
	// 用一个临时会话观察一片区域，挑出有代币的格子
	v, err := r.Observe(context.Background(), "scout", grid.Viewport{South: 0, North: 0.005, West: 0, East: 0.005})
	if err != nil {
		t.Fatalf("Observe 失败: %v", err)
	}
	for _, c := range v.Cells {
		if c.Value > 0 {
			return grid.Cell{I: c.I, J: c.J}
		}
	}
	t.Fatalf("区域内没有代币")
	return grid.Cell{}
}

func TestRuntime_会话互相隔离(t *testing.T) {
	r, _ := newRuntime(t, "swap", 0, nil)
	cell := occupiedCell(t, r)
	ctx := context.Background()

	ex, err := r.Exchange(ctx, "a", cell)
	if err != nil {
		t.Fatalf("Exchange 失败: %v", err)
	}
	if ex.Inventory.Value == 0 {
		t.Fatalf("期望会话 a 拾取到代币")
	}
	inv, err := r.Inventory(ctx, "b")
	if err != nil {
		t.Fatalf("Inventory 失败: %v", err)
	}
	if inv.Value != 0 || inv.Text != "No held tokens." {
		t.Fatalf("会话 b 不应受影响: %+v", inv)
	}
	n, err := r.Sessions(ctx)
	if err != nil || n != 3 {
		t.Fatalf("期望 3 个会话(scout/a/b), got %d err=%v", n, err)
	}
}

func TestRuntime_并发交换串行执行(t *testing.T) {
	r, svc := newRuntime(t, "swap", 0, nil)
	cell := occupiedCell(t, r)
	ctx := context.Background()

	var wg sync.WaitGroup
	for k := 0; k < 50; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Exchange(ctx, "s", cell)
		}()
	}
	wg.Wait()

	// 50 次交换为偶数次，代币应回到格子里
	inv, _ := r.Inventory(ctx, "s")
	if inv.Value != 0 {
		t.Fatalf("偶数次交换后背包应为空: %+v", inv)
	}
	loc, err := r.Locate(ctx, "s", svc.Indexer().BoundsOf(cell).Center().Lat(), svc.Indexer().BoundsOf(cell).Center().Lon())
	if err != nil {
		t.Fatalf("Locate 失败: %v", err)
	}
	if loc.Cell.Value == 0 {
		t.Fatalf("代币应在格子里: %+v", loc.Cell)
	}
}

func TestRuntime_拒绝策略带回状态(t *testing.T) {
	r, _ := newRuntime(t, "reject_when_holding", 0, nil)
	ctx := context.Background()
	v, err := r.Observe(ctx, "s", grid.Viewport{South: 0, North: 0.005, West: 0, East: 0.005})
	if err != nil {
		t.Fatalf("Observe 失败: %v", err)
	}
	var occupied []grid.Cell
	for _, c := range v.Cells {
		if c.Value > 0 {
			occupied = append(occupied, grid.Cell{I: c.I, J: c.J})
		}
	}
	if len(occupied) < 2 {
		t.Fatalf("区域内代币不足")
	}
	if _, err := r.Exchange(ctx, "s", occupied[0]); err != nil {
		t.Fatalf("第一次拾取失败: %v", err)
	}
	ex, err := r.Exchange(ctx, "s", occupied[1])
	if !errors.Is(err, app.ErrInventoryFull) {
		t.Fatalf("期望 ErrInventoryFull, got %v", err)
	}
	if ex == nil || !ex.Rejected {
		t.Fatalf("期望带回被拒绝的状态: %+v", ex)
	}
}

func TestRuntime_关闭后得到新会话(t *testing.T) {
	r, _ := newRuntime(t, "swap", 0, nil)
	cell := occupiedCell(t, r)
	ctx := context.Background()

	if _, err := r.Exchange(ctx, "s", cell); err != nil {
		t.Fatalf("Exchange 失败: %v", err)
	}
	if err := r.Close(ctx, "s"); err != nil {
		t.Fatalf("Close 失败: %v", err)
	}
	inv, err := r.Inventory(ctx, "s")
	if err != nil {
		t.Fatalf("Inventory 失败: %v", err)
	}
	if inv.Value != 0 {
		t.Fatalf("关闭后会话应是全新的: %+v", inv)
	}
	if err := r.Close(ctx, "never-opened"); err != nil {
		t.Fatalf("关闭不存在的会话应成功: %v", err)
	}
}

func TestRuntime_空闲超时后会话被回收(t *testing.T) {
	r, _ := newRuntime(t, "swap", 50*time.Millisecond, nil)
	ctx := context.Background()
	if _, err := r.Inventory(ctx, "s"); err != nil {
		t.Fatalf("Inventory 失败: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := r.Sessions(ctx); n == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("空闲会话未被回收")
}

func TestRuntime_交换推送到会话的sink(t *testing.T) {
	var mu sync.Mutex
	recs := map[entity.SessionID]*render.Recorder{}
	factory := func(sid entity.SessionID) render.Sink {
		mu.Lock()
		defer mu.Unlock()
		rec := &render.Recorder{}
		recs[sid] = rec
		return rec
	}
	r, _ := newRuntime(t, "swap", 0, factory)
	cell := occupiedCell(t, r)
	if _, err := r.Exchange(context.Background(), "s", cell); err != nil {
		t.Fatalf("Exchange 失败: %v", err)
	}
	mu.Lock()
	rec := recs["s"]
	mu.Unlock()
	if rec == nil || len(rec.Inventory()) != 1 || len(rec.Caches()) != 1 {
		t.Fatalf("期望会话 s 的 sink 收到一次推送")
	}
	if c := rec.Caches()[0]; c.Cell != cell || c.Text != "" {
		t.Fatalf("格子推送错误: %+v", c)
	}
}

func TestRuntime_超大视口不影响背包(t *testing.T) {
	r, _ := newRuntime(t, "swap", 0, nil)
	cell := occupiedCell(t, r)
	ctx := context.Background()

	ex, err := r.Exchange(ctx, "s", cell)
	if err != nil || ex.Inventory.Value == 0 {
		t.Fatalf("期望拾取到代币, ex=%+v err=%v", ex, err)
	}

	huge := []grid.Viewport{
		{South: -214000, North: 214000, West: -214000, East: 214000},
		{South: -90, North: 90, West: -180, East: 180},
	}
	for _, vp := range huge {
		if _, err := r.Observe(ctx, "s", vp); errors.Is(err, app.ErrSessionUnavailable) || err == nil {
			t.Fatalf("期望业务拒绝, vp=%+v err=%v", vp, err)
		}
	}

	inv, err := r.Inventory(ctx, "s")
	if err != nil {
		t.Fatalf("Inventory 失败: %v", err)
	}
	if inv.Value != ex.Inventory.Value {
		t.Fatalf("背包里的代币不应丢失: %+v", inv)
	}
}

type downJournal struct{}

func (downJournal) Record(entity.ExchangeEvent) error { return errors.New("db down") }

func TestRuntime_交换日志带请求trace(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := serverconfig.Default().Game
	svc, err := service.FromConfig(cfg,
		service.WithJournal(downJournal{}),
		service.WithLogger(logx.NewZapLogger(zap.New(core))),
	)
	if err != nil {
		t.Fatalf("FromConfig 失败: %v", err)
	}
	r := NewRuntime(svc, nil, 0, time.Second)
	t.Cleanup(r.Shutdown)
	cell := occupiedCell(t, r)

	ctx := tracex.WithSpanID(tracex.WithTraceID(context.Background(), "trace-ex"), "span-ex")
	if _, err := r.Exchange(ctx, "s", cell); err != nil {
		t.Fatalf("Exchange 失败: %v", err)
	}

	entries := logs.FilterMessage("journal record failed").All()
	if len(entries) != 1 {
		t.Fatalf("期望一条 journal 失败日志, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "trace-ex" || fields["span_id"] != "span-ex" {
		t.Fatalf("期望日志带请求的 trace/span, got %v", fields)
	}
	if fields["sid"] != "s" {
		t.Fatalf("期望日志带 sid, got %v", fields)
	}
}
