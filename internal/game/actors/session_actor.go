package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"Geocache/internal/game/app"
	"Geocache/internal/game/entity"
	"Geocache/internal/game/render"
	"Geocache/internal/game/service"
	"Geocache/internal/shared/actor/messages"
)

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// SessionActor 独占一个会话的全部状态，消息逐条处理完才处理下一条。
type SessionActor struct {
	state       State
	sid         entity.SessionID
	svc         *service.GameService
	session     *entity.Session
	sink        render.Sink
	idleTimeout time.Duration
	dispatcher  *Dispatcher
}

func NewSessionActor(sid entity.SessionID, svc *service.GameService, sink render.Sink, idleTimeout time.Duration) *SessionActor {
	if sink == nil {
		sink = render.Nop()
	}
	return &SessionActor{
		state:       None,
		sid:         sid,
		svc:         svc,
		sink:        sink,
		idleTimeout: idleTimeout,
		dispatcher:  NewDispatcher(),
	}
}

func (s *SessionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		s.session = s.svc.NewSession(s.sid)
		s.state = Online
		if s.idleTimeout > 0 {
			ctx.SetReceiveTimeout(s.idleTimeout)
		}
		return
	case *actor.ReceiveTimeout:
		ctx.Logger().Info("session idle, stopping", "sid", s.sid)
		ctx.Stop(ctx.Self())
		return
	case *actor.Stopping:
		s.state = Stopping
		return
	case *actor.Stopped:
		s.state = Offline
		s.session = nil
		return
	case *actor.Restarting:
		s.state = None
		return
	case messages.GameMessage:
		if s.state != Online || s.session == nil {
			ctx.Respond(messages.Fail(app.ErrSessionUnavailable.WithReason(app.ReasonActorStopped)))
			return
		}
		s.dispatcher.Dispatch(ctx, s, msg)
	default:
		return
	}
}

func (s *SessionActor) SessionID() entity.SessionID {
	return s.sid
}

func (s *SessionActor) Session() *entity.Session {
	return s.session
}

func (s *SessionActor) Sink() render.Sink {
	return s.sink
}

func (s *SessionActor) Service() *service.GameService {
	return s.svc
}
