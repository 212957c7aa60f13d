package cachegen

import (
	"math"
	"testing"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
)

func fixedRoll(r float64) Option {
	return WithLuck(func(string) float64 { return r })
}

func mustNew(t *testing.T, p float64, tiers []Tier, opts ...Option) *Generator {
	t.Helper()
	g, err := New(p, tiers, opts...)
	if err != nil {
		t.Fatalf("New 失败: %v", err)
	}
	return g
}

func TestDecide_确定性(t *testing.T) {
	g := mustNew(t, DefaultSpawnProbability, DefaultTiers())
	for i := -30; i < 30; i++ {
		for j := -30; j < 30; j++ {
			c := grid.Cell{I: i, J: j}
			if a, b := g.Decide(c), g.Decide(c); a != b {
				t.Fatalf("格子 %v 两次结果不同: %v vs %v", c, a, b)
			}
		}
	}
}

func TestDecide_生成率接近概率(t *testing.T) {
	g := mustNew(t, DefaultSpawnProbability, DefaultTiers())
	occupied := 0
	for i := 0; i < 100; i++ {
		for j := 0; j < 100; j++ {
			if !g.Decide(grid.Cell{I: i, J: j}).IsEmpty() {
				occupied++
			}
		}
	}
	rate := float64(occupied) / 10000
	if math.Abs(rate-DefaultSpawnProbability) > 0.02 {
		t.Fatalf("期望生成率约 %.2f, got %.4f", DefaultSpawnProbability, rate)
	}
}

func TestDecide_概率上界不含(t *testing.T) {
	c := grid.Cell{I: 369894, J: -1220627}

	g := mustNew(t, 0.10, DefaultTiers(), fixedRoll(0.10))
	if s := g.Decide(c); !s.IsEmpty() {
		t.Fatalf("roll=0.10 期望为空, got %v", s)
	}

	g = mustNew(t, 0.10, DefaultTiers(), fixedRoll(0.0999999))
	if s := g.Decide(c); s != entity.Holding(524) {
		t.Fatalf("roll=0.0999999 期望面值 524, got %v", s)
	}
}

func TestDecide_档位边界归低档(t *testing.T) {
	cases := []struct {
		roll float64
		want entity.Token
	}{
		{0, 131},
		{0.06, 131},
		{0.0600001, 262},
		{0.09, 262},
		{0.095, 524},
	}
	for _, tc := range cases {
		g := mustNew(t, 0.10, DefaultTiers(), fixedRoll(tc.roll))
		if s := g.Decide(grid.Cell{}); s != entity.Holding(tc.want) {
			t.Fatalf("roll=%v 期望 %d, got %v", tc.roll, tc.want, s)
		}
	}
}

func TestDecide_超出所有档位落在最后一档(t *testing.T) {
	g := mustNew(t, 0.5, []Tier{{UpTo: 0.1, Value: 1}, {UpTo: 0.2, Value: 2}}, fixedRoll(0.3))
	if s := g.Decide(grid.Cell{}); s != entity.Holding(2) {
		t.Fatalf("期望最后一档 2, got %v", s)
	}
}

func TestSeed_不同坐标不撞(t *testing.T) {
	seen := map[string]grid.Cell{}
	for i := -12; i <= 12; i++ {
		for j := -12; j <= 12; j++ {
			c := grid.Cell{I: i, J: j}
			s := Seed(c)
			if prev, ok := seen[s]; ok {
				t.Fatalf("种子 %q 同时对应 %v 和 %v", s, prev, c)
			}
			seen[s] = c
		}
	}
}

func TestNew_参数校验(t *testing.T) {
	cases := []struct {
		name  string
		p     float64
		tiers []Tier
		want  error
	}{
		{"概率为0", 0, DefaultTiers(), ErrSpawnProbability},
		{"概率大于1", 1.5, DefaultTiers(), ErrSpawnProbability},
		{"无档位", 0.1, nil, ErrNoTiers},
		{"档位不递增", 0.1, []Tier{{0.05, 1}, {0.05, 2}}, ErrTierOrder},
		{"面值非正", 0.1, []Tier{{0.05, 0}}, ErrTierValue},
	}
	for _, tc := range cases {
		if _, err := New(tc.p, tc.tiers); err != tc.want {
			t.Fatalf("%s: 期望 %v, got %v", tc.name, tc.want, err)
		}
	}
}
