package render

import (
	"go.uber.org/zap"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/modules/kit/logx"
)

// LogSink 把显示变化写到日志，没有界面时也能看到状态流转。
type LogSink struct {
	sid entity.SessionID
	log logx.Logger
}

func NewLogSink(sid entity.SessionID, l logx.Logger) *LogSink {
	if l == nil {
		l = logx.NewNop()
	}
	return &LogSink{sid: sid, log: l}
}

func LogFactory(l logx.Logger) Factory {
	return func(sid entity.SessionID) Sink {
		return NewLogSink(sid, l)
	}
}

func (s *LogSink) OnInventoryChanged(text string) {
	s.log.Debug("render.inventory",
		zap.String("sid", string(s.sid)),
		zap.String("text", text),
	)
}

func (s *LogSink) OnCacheChanged(cell grid.Cell, text string) {
	s.log.Debug("render.cache",
		zap.String("sid", string(s.sid)),
		zap.Int("i", cell.I),
		zap.Int("j", cell.J),
		zap.String("text", text),
	)
}
