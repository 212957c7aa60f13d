package entity

import (
	"sort"

	"Geocache/internal/game/grid"
)

// Decider 决定一个格子初次出现时的内容，必须是格子的纯函数。
type Decider interface {
	Decide(cell grid.Cell) Slot
}

// DeciderFunc 让普通函数满足 Decider。
type DeciderFunc func(cell grid.Cell) Slot

func (f DeciderFunc) Decide(cell grid.Cell) Slot {
	return f(cell)
}

// CacheRegistry 以格子为键懒加载缓存点，只被所属会话访问。
type CacheRegistry struct {
	decider Decider
	caches  map[grid.Cell]*Cache
}

func NewCacheRegistry(decider Decider) *CacheRegistry {
	return &CacheRegistry{
		decider: decider,
		caches:  make(map[grid.Cell]*Cache),
	}
}

// GetOrGenerate 第一次访问时调用生成器，之后返回同一条记录。
func (r *CacheRegistry) GetOrGenerate(cell grid.Cell) *Cache {
	if c, ok := r.caches[cell]; ok {
		return c
	}
	c := newCache(cell, r.decider.Decide(cell))
	r.caches[cell] = c
	return c
}

func (r *CacheRegistry) Lookup(cell grid.Cell) (*Cache, bool) {
	c, ok := r.caches[cell]
	return c, ok
}

func (r *CacheRegistry) Len() int {
	return len(r.caches)
}

// Cells 返回已生成的格子，按 (I, J) 排序。
func (r *CacheRegistry) Cells() []grid.Cell {
	out := make([]grid.Cell, 0, len(r.caches))
	for c := range r.caches {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Less(out[b]) })
	return out
}
