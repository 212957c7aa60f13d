package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/render"
	"Geocache/internal/game/service"
	"Geocache/internal/shared/actor/messages"
)

// ManagerActor 按会话 id 懒创建 SessionActor 并转发消息。
type ManagerActor struct {
	svc         *service.GameService
	sinks       render.Factory
	idleTimeout time.Duration

	sessions map[entity.SessionID]*actor.PID
	byPID    map[string]entity.SessionID
}

func NewManagerActor(svc *service.GameService, sinks render.Factory, idleTimeout time.Duration) *ManagerActor {
	if sinks == nil {
		sinks = render.NopFactory
	}
	return &ManagerActor{
		svc:         svc,
		sinks:       sinks,
		idleTimeout: idleTimeout,
		sessions:    make(map[entity.SessionID]*actor.PID),
		byPID:       make(map[string]entity.SessionID),
	}
}

// SessionCount 只在 manager 自己的消息循环里读。
type SessionCount struct{}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case *SessionCount:
		ctx.Respond(len(m.sessions))
	case *messages.GClose:
		sid := entity.SessionID(msg.SessionID())
		if pid, ok := m.sessions[sid]; ok {
			m.forget(pid)
			ctx.Stop(pid)
		}
		ctx.Respond(messages.OK(nil))
	case messages.GameMessage:
		if msg == nil {
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, entity.SessionID(msg.SessionID())))
	default:
		return
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, sid entity.SessionID) *actor.PID {
	if pid, ok := m.sessions[sid]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(sid, m.svc, m.sinks(sid), m.idleTimeout)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.sessions[sid] = pid
	m.byPID[pid.Id] = sid
	return pid
}

func (m *ManagerActor) forget(pid *actor.PID) {
	if pid == nil {
		return
	}
	sid, ok := m.byPID[pid.Id]
	if !ok {
		return
	}
	delete(m.byPID, pid.Id)
	if cur, ok := m.sessions[sid]; ok && cur.Id == pid.Id {
		delete(m.sessions, sid)
	}
}

// StopOnFailure 是 manager 对会话 actor 的监督策略：出错直接停掉，
// 不重启成一个悄悄清空了背包的新会话。manager 收到 Terminated 后会忘掉它。
func StopOnFailure() actor.SupervisorStrategy {
	return actor.NewOneForOneStrategy(0, 0, func(reason any) actor.Directive {
		return actor.StopDirective
	})
}
