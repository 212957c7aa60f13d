package entity

import "Geocache/internal/game/grid"

type SessionID string

// Session 持有一个玩家的背包和已见过的缓存点。
// 不加锁，由唯一的 SessionActor 串行访问。
type Session struct {
	id        SessionID
	policy    Policy
	inventory Slot
	registry  *CacheRegistry
}

func NewSession(id SessionID, policy Policy, decider Decider) *Session {
	if policy == "" {
		policy = PolicySwap
	}
	return &Session{
		id:       id,
		policy:   policy,
		registry: NewCacheRegistry(decider),
	}
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) Policy() Policy {
	return s.policy
}

func (s *Session) Inventory() Slot {
	return s.inventory
}

func (s *Session) Registry() *CacheRegistry {
	return s.registry
}

// Observe 对视口内的每个格子 get-or-generate，按传入顺序返回。
func (s *Session) Observe(cells []grid.Cell) []*Cache {
	out := make([]*Cache, 0, len(cells))
	for _, c := range cells {
		out = append(out, s.registry.GetOrGenerate(c))
	}
	return out
}

// Exchange 交换背包与格子上的槽位。没见过的格子先生成。
// 只有 reject_when_holding 策略下两边都有代币时返回 ErrInventoryFull，此时状态不变。
func (s *Session) Exchange(cell grid.Cell) (Outcome, error) {
	c := s.registry.GetOrGenerate(cell)
	out := Outcome{
		Cell:            cell,
		InventoryBefore: s.inventory,
		CacheBefore:     c.slot,
	}
	inv, slot, rejected := exchange(s.policy, s.inventory, c.slot)
	out.InventoryAfter, out.CacheAfter, out.Rejected = inv, slot, rejected
	if rejected {
		return out, ErrInventoryFull.WithDataMap(map[string]any{"cell": cell.String(), "reason": "both_holding"})
	}
	s.inventory, c.slot = inv, slot
	return out, nil
}
