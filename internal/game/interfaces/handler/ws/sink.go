package ws

import (
	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/interfaces/handler/ws/dto"
	"Geocache/internal/game/render"
	"Geocache/internal/shared/session"
)

const (
	PushInventory = "game.inventory"
	PushCell      = "game.cell"
)

// pushSink 把显示变化推给会话绑定的所有连接，没有连接时直接丢弃。
type pushSink struct {
	sid string
	mgr session.Manager
}

func (p *pushSink) OnInventoryChanged(text string) {
	p.mgr.Push(p.sid, PushInventory, dto.InventoryPush{Text: text})
}

func (p *pushSink) OnCacheChanged(cell grid.Cell, text string) {
	p.mgr.Push(p.sid, PushCell, dto.CellPush{I: cell.I, J: cell.J, Text: text})
}

// SinkFactory 为每个会话构造一个推送 sink。
func SinkFactory(mgr session.Manager) render.Factory {
	if mgr == nil {
		return render.NopFactory
	}
	return func(sid entity.SessionID) render.Sink {
		return &pushSink{sid: string(sid), mgr: mgr}
	}
}
