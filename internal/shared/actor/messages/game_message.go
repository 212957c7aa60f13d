package messages

import (
	"context"

	"Geocache/modules/kit/tracex"
)

// GameMessage 由 ManagerActor 按会话 id 路由到对应的 SessionActor。
type GameMessage interface {
	SessionID() string
}

// GameBaseMessage 除会话 id 外还带着请求的 trace/span id，actor 里据此还原日志上下文。
type GameBaseMessage struct {
	Sid     string
	TraceID string
	SpanID  string
}

func NewGameBase(ctx context.Context, sid string) GameBaseMessage {
	m := GameBaseMessage{Sid: sid}
	m.TraceID, _ = tracex.TraceIDFrom(ctx)
	m.SpanID, _ = tracex.SpanIDFrom(ctx)
	return m
}

// Context 只还原 trace 字段，不继承调用方的超时与取消。
func (m GameBaseMessage) Context() context.Context {
	ctx := context.Background()
	if m.TraceID != "" {
		ctx = tracex.WithTraceID(ctx, m.TraceID)
	}
	if m.SpanID != "" {
		ctx = tracex.WithSpanID(ctx, m.SpanID)
	}
	return ctx
}

func (m GameBaseMessage) SessionID() string {
	return m.Sid
}

// GObserve 观察一个视口（度）。
type GObserve struct {
	GameBaseMessage
	South, North, West, East float64
}

// GExchange 交换背包与格子 (I, J)。
type GExchange struct {
	GameBaseMessage
	I, J int
}

type GInventory struct {
	GameBaseMessage
}

type GLocate struct {
	GameBaseMessage
	Lat, Lng float64
}

// GClose 结束会话，之后同一 id 的请求会得到一个全新的会话。
type GClose struct {
	GameBaseMessage
}
