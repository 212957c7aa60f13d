package port

import "Geocache/internal/game/entity"

// Journal 是服务层看到的审计出口，实现方不得阻塞调用方。
type Journal interface {
	Record(ev entity.ExchangeEvent) error
}

// IDGenerator 生成交换记录的 id。
type IDGenerator interface {
	NextID() int64
}
