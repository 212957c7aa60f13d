package entity

import (
	"time"

	"Geocache/internal/game/grid"
)

// ExchangeEvent 是一次交换尝试的审计记录，只写不读。
type ExchangeEvent struct {
	ID              int64
	SessionID       SessionID
	Cell            grid.Cell
	Policy          Policy
	InventoryBefore int
	CacheBefore     int
	InventoryAfter  int
	CacheAfter      int
	Rejected        bool
	At              time.Time
}

func NewExchangeEvent(id int64, sid SessionID, policy Policy, o Outcome, at time.Time) ExchangeEvent {
	return ExchangeEvent{
		ID:              id,
		SessionID:       sid,
		Cell:            o.Cell,
		Policy:          policy,
		InventoryBefore: o.InventoryBefore.Value(),
		CacheBefore:     o.CacheBefore.Value(),
		InventoryAfter:  o.InventoryAfter.Value(),
		CacheAfter:      o.CacheAfter.Value(),
		Rejected:        o.Rejected,
		At:              at,
	}
}
