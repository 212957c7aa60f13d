package entity

import "Geocache/internal/game/grid"

// Cache 是挂在格子上的槽位。spawned 记录生成器是否在这里放过代币，
// 之后的交换只改 slot。
type Cache struct {
	cell    grid.Cell
	slot    Slot
	spawned bool
}

func newCache(cell grid.Cell, initial Slot) *Cache {
	return &Cache{cell: cell, slot: initial, spawned: !initial.IsEmpty()}
}

func (c *Cache) Cell() grid.Cell {
	return c.cell
}

func (c *Cache) Slot() Slot {
	return c.slot
}

func (c *Cache) Spawned() bool {
	return c.spawned
}

// Visible 表示该格子应该画成一个缓存点：生成过，或者玩家往里放过代币。
func (c *Cache) Visible() bool {
	return c.spawned || !c.slot.IsEmpty()
}
