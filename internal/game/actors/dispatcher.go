package actors

import (
	"fmt"
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"Geocache/internal/game/app"
	"Geocache/internal/shared/actor/messages"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleObserve)
	register(d, SH.HandleExchange)
	register(d, SH.HandleInventory)
	register(d, SH.HandleLocate)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, s *SessionActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, s *SessionActor, req messages.GameMessage) {
	if req == nil {
		ctx.Respond(messages.Fail(app.ErrSessionUnavailable.WithData("reason", "nil request")))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(messages.Fail(app.ErrSessionUnavailable.WithData("reason", "no handler for "+bodyType.String())))
		return
	}

	// handler panic 时保留会话状态并回错误，不让 actor 被重启成空会话
	defer func() {
		if r := recover(); r != nil {
			ctx.Logger().Error("session handler panic",
				"sid", s.SessionID(),
				"msg", bodyType.String(),
				"panic", fmt.Sprint(r),
			)
			ctx.Respond(messages.Fail(app.ErrSessionUnavailable.
				WithReason(app.ReasonHandlerPanic).
				WithData("panic", fmt.Sprint(r))))
		}
	}()

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(s),
		reflect.ValueOf(req),
	})
}
