package entity

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"Geocache/internal/game/grid"
)

// 偶数列放面值 (i+j)%5+1 的代币，奇数列为空。
var stubDecider = DeciderFunc(func(c grid.Cell) Slot {
	if c.J%2 == 0 {
		return Holding(Token(((c.I+c.J)%5+5)%5 + 1))
	}
	return Empty()
})

func tokens(s *Session) []int {
	var out []int
	if v, ok := s.Inventory().Token(); ok {
		out = append(out, int(v))
	}
	for _, c := range s.Registry().Cells() {
		cache, _ := s.Registry().Lookup(c)
		if v, ok := cache.Slot().Token(); ok {
			out = append(out, int(v))
		}
	}
	sort.Ints(out)
	return out
}

func sum(vs []int) int {
	n := 0
	for _, v := range vs {
		n += v
	}
	return n
}

func TestExchange_空背包拾取(t *testing.T) {
	s := NewSession("s1", PolicySwap, stubDecider)
	out, err := s.Exchange(grid.Cell{I: 1, J: 0})
	if err != nil {
		t.Fatalf("不期望出错: %v", err)
	}
	if out.InventoryAfter != Holding(2) || !out.CacheAfter.IsEmpty() {
		t.Fatalf("期望拾取面值 2, got %+v", out)
	}
	if s.Inventory() != Holding(2) {
		t.Fatalf("期望背包为 2, got %v", s.Inventory())
	}
	c, _ := s.Registry().Lookup(grid.Cell{I: 1, J: 0})
	if !c.Slot().IsEmpty() || !c.Spawned() || !c.Visible() {
		t.Fatalf("缓存点应被取空但仍可见: %+v", c)
	}
}

func TestExchange_两个空槽为空操作(t *testing.T) {
	s := NewSession("s1", PolicySwap, stubDecider)
	out, err := s.Exchange(grid.Cell{I: 0, J: 1})
	if err != nil || out.Changed() || !s.Inventory().IsEmpty() {
		t.Fatalf("期望空操作, out=%+v err=%v", out, err)
	}
}

func TestExchange_交换是自身的逆(t *testing.T) {
	s := NewSession("s1", PolicySwap, stubDecider)
	_, _ = s.Exchange(grid.Cell{I: 0, J: 0})
	cell := grid.Cell{I: 3, J: 2}
	c := s.Registry().GetOrGenerate(cell)
	invBefore, cacheBefore := s.Inventory(), c.Slot()

	_, _ = s.Exchange(cell)
	_, _ = s.Exchange(cell)
	if s.Inventory() != invBefore || c.Slot() != cacheBefore {
		t.Fatalf("两次交换后应复原, inv=%v cache=%v", s.Inventory(), c.Slot())
	}
}

func TestExchange_随机序列守恒(t *testing.T) {
	s := NewSession("s1", PolicySwap, stubDecider)
	var cells []grid.Cell
	for i := -4; i < 4; i++ {
		for j := -4; j < 4; j++ {
			cells = append(cells, grid.Cell{I: i, J: j})
		}
	}
	s.Observe(cells)
	want := tokens(s)
	wantSum := sum(want)

	r := rand.New(rand.NewSource(7))
	for k := 0; k < 2000; k++ {
		if _, err := s.Exchange(cells[r.Intn(len(cells))]); err != nil {
			t.Fatalf("swap 策略不应出错: %v", err)
		}
		got := tokens(s)
		if sum(got) != wantSum || len(got) != len(want) {
			t.Fatalf("第 %d 步总量变化: 期望 %d/%d got %d/%d", k, wantSum, len(want), sum(got), len(got))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("第 %d 步面值多重集变化: 期望 %v got %v", k, want, got)
			}
		}
	}
}

func TestExchange_持有时拒绝策略(t *testing.T) {
	s := NewSession("s1", PolicyRejectWhenHolding, stubDecider)
	if _, err := s.Exchange(grid.Cell{I: 0, J: 0}); err != nil {
		t.Fatalf("空背包应能拾取: %v", err)
	}
	full := grid.Cell{I: 0, J: 2}
	c := s.Registry().GetOrGenerate(full)
	invBefore, cacheBefore := s.Inventory(), c.Slot()

	out, err := s.Exchange(full)
	if !errors.Is(err, ErrInventoryFull) {
		t.Fatalf("期望 ErrInventoryFull, got %v", err)
	}
	if !out.Rejected || out.Changed() {
		t.Fatalf("被拒绝时不应有变化: %+v", out)
	}
	if s.Inventory() != invBefore || c.Slot() != cacheBefore {
		t.Fatalf("被拒绝后状态变了: inv=%v cache=%v", s.Inventory(), c.Slot())
	}

	// 放回空格子仍然允许
	if _, err := s.Exchange(grid.Cell{I: 0, J: 1}); err != nil {
		t.Fatalf("放下代币不应被拒绝: %v", err)
	}
	if !s.Inventory().IsEmpty() {
		t.Fatalf("期望背包为空")
	}
}

func TestRegistry_与生成顺序无关(t *testing.T) {
	cells := []grid.Cell{{I: 0, J: 0}, {I: 1, J: 2}, {I: -3, J: 4}, {I: 5, J: -6}, {I: 2, J: 2}}
	a := NewCacheRegistry(stubDecider)
	b := NewCacheRegistry(stubDecider)
	for _, c := range cells {
		a.GetOrGenerate(c)
	}
	for k := len(cells) - 1; k >= 0; k-- {
		b.GetOrGenerate(cells[k])
	}
	for _, c := range cells {
		ca, _ := a.Lookup(c)
		cb, _ := b.Lookup(c)
		if ca.Slot() != cb.Slot() {
			t.Fatalf("格子 %v 内容依赖生成顺序: %v vs %v", c, ca.Slot(), cb.Slot())
		}
	}
	if a.Len() != len(cells) {
		t.Fatalf("期望 %d 条记录, got %d", len(cells), a.Len())
	}
}

func TestRegistry_只生成一次(t *testing.T) {
	calls := 0
	r := NewCacheRegistry(DeciderFunc(func(grid.Cell) Slot {
		calls++
		return Holding(1)
	}))
	first := r.GetOrGenerate(grid.Cell{I: 1, J: 1})
	second := r.GetOrGenerate(grid.Cell{I: 1, J: 1})
	if first != second || calls != 1 {
		t.Fatalf("期望复用同一记录且只调用一次生成器, calls=%d", calls)
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{"": PolicySwap, "swap": PolicySwap, "reject_when_holding": PolicyRejectWhenHolding}
	for in, want := range cases {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) 期望 %v, got %v err=%v", in, want, got, err)
		}
	}
	if _, err := ParsePolicy("grab"); err == nil {
		t.Fatalf("未知策略应报错")
	}
}
