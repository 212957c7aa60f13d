package entity

import (
	"fmt"

	"Geocache/internal/game/grid"
)

type Policy string

const (
	// PolicySwap 无条件交换背包和缓存点。
	PolicySwap Policy = "swap"
	// PolicyRejectWhenHolding 两边都有代币时拒绝，其余情况同 swap。
	PolicyRejectWhenHolding Policy = "reject_when_holding"
)

// ParsePolicy 空串按 swap 处理。
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicySwap:
		return PolicySwap, nil
	case PolicyRejectWhenHolding:
		return PolicyRejectWhenHolding, nil
	default:
		return "", fmt.Errorf("unknown exchange policy %q", s)
	}
}

// Outcome 是一次交换前后的两个槽位。被拒绝时 After 与 Before 相同。
type Outcome struct {
	Cell            grid.Cell
	InventoryBefore Slot
	CacheBefore     Slot
	InventoryAfter  Slot
	CacheAfter      Slot
	Rejected        bool
}

// Changed 表示至少一个槽位发生了变化。
func (o Outcome) Changed() bool {
	return o.InventoryBefore != o.InventoryAfter || o.CacheBefore != o.CacheAfter
}

// exchange 是纯函数：给定两个槽位和策略，算出交换后的槽位。
func exchange(policy Policy, inv, cache Slot) (Slot, Slot, bool) {
	if policy == PolicyRejectWhenHolding && !inv.IsEmpty() && !cache.IsEmpty() {
		return inv, cache, true
	}
	return cache, inv, false
}
