package render

import (
	"sync"

	"Geocache/internal/game/grid"
)

// CacheChange 是 Recorder 记下的一次格子变化。
type CacheChange struct {
	Cell grid.Cell
	Text string
}

// Recorder 记录收到的所有调用，供调用方测试断言。并发安全。
type Recorder struct {
	mu        sync.Mutex
	inventory []string
	caches    []CacheChange
}

func (r *Recorder) OnInventoryChanged(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inventory = append(r.inventory, text)
}

func (r *Recorder) OnCacheChanged(cell grid.Cell, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caches = append(r.caches, CacheChange{Cell: cell, Text: text})
}

func (r *Recorder) Inventory() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.inventory...)
}

func (r *Recorder) Caches() []CacheChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CacheChange(nil), r.caches...)
}
