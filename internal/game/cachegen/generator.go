// Package cachegen 按格子坐标确定性地决定缓存点是否生成以及代币面值。
package cachegen

import (
	"errors"
	"strconv"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/luck"
)

// Tier 是累积概率档位：roll <= UpTo 时取 Value。
type Tier struct {
	UpTo  float64
	Value int
}

// DefaultTiers 的截断点都落在默认生成概率 0.10 之内，生成和面值共用同一次掷骰。
func DefaultTiers() []Tier {
	return []Tier{
		{UpTo: 0.06, Value: 131},
		{UpTo: 0.09, Value: 262},
		{UpTo: 0.10, Value: 524},
	}
}

const DefaultSpawnProbability = 0.10

var (
	ErrNoTiers          = errors.New("cachegen: at least one tier is required")
	ErrTierOrder        = errors.New("cachegen: tier cutoffs must be strictly ascending")
	ErrTierValue        = errors.New("cachegen: tier values must be positive")
	ErrSpawnProbability = errors.New("cachegen: spawn probability must be in (0, 1]")
)

type Option func(*Generator)

// WithLuck 替换种子函数，默认 luck.Luck。
func WithLuck(f luck.Func) Option {
	return func(g *Generator) {
		if f != nil {
			g.luck = f
		}
	}
}

type Generator struct {
	spawnProbability float64
	tiers            []Tier
	luck             luck.Func
}

func New(spawnProbability float64, tiers []Tier, opts ...Option) (*Generator, error) {
	if !(spawnProbability > 0 && spawnProbability <= 1) {
		return nil, ErrSpawnProbability
	}
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}
	for i, t := range tiers {
		if t.Value <= 0 {
			return nil, ErrTierValue
		}
		if i > 0 && t.UpTo <= tiers[i-1].UpTo {
			return nil, ErrTierOrder
		}
	}
	g := &Generator{
		spawnProbability: spawnProbability,
		tiers:            append([]Tier(nil), tiers...),
		luck:             luck.Luck,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Seed 用 ":" 分隔，整数格式化不会产生这个字符，不同坐标不会撞种子。
func Seed(c grid.Cell) string {
	return strconv.Itoa(c.I) + ":" + strconv.Itoa(c.J)
}

// Decide 无状态，同一格子永远得到同样的结果。
func (g *Generator) Decide(c grid.Cell) entity.Slot {
	roll := g.luck(Seed(c))
	if roll >= g.spawnProbability {
		return entity.Empty()
	}
	return entity.Holding(entity.Token(g.valueFor(roll)))
}

func (g *Generator) SpawnProbability() float64 {
	return g.spawnProbability
}

func (g *Generator) Tiers() []Tier {
	return append([]Tier(nil), g.tiers...)
}

// valueFor 取第一个 roll <= UpTo 的档位，超过所有截断点时落在最后一档。
func (g *Generator) valueFor(roll float64) int {
	for _, t := range g.tiers {
		if roll <= t.UpTo {
			return t.Value
		}
	}
	return g.tiers[len(g.tiers)-1].Value
}
