package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"Geocache/internal/game/grid"
	"Geocache/internal/shared/actor/messages"
)

type SessionHandler struct{}

var SH = &SessionHandler{}

func (h *SessionHandler) HandleObserve(ctx actor.Context, s *SessionActor, req *messages.GObserve) {
	vp := grid.Viewport{South: req.South, North: req.North, West: req.West, East: req.East}
	view, err := s.svc.Observe(s.session, vp)
	ctx.Respond(&messages.Reply{Body: view, Err: err})
}

func (h *SessionHandler) HandleExchange(ctx actor.Context, s *SessionActor, req *messages.GExchange) {
	view, err := s.svc.Exchange(req.Context(), s.session, s.sink, grid.Cell{I: req.I, J: req.J})
	ctx.Respond(&messages.Reply{Body: view, Err: err})
}

func (h *SessionHandler) HandleInventory(ctx actor.Context, s *SessionActor, req *messages.GInventory) {
	_ = req
	ctx.Respond(messages.OK(s.svc.Inventory(s.session)))
}

func (h *SessionHandler) HandleLocate(ctx actor.Context, s *SessionActor, req *messages.GLocate) {
	view, err := s.svc.Locate(s.session, req.Lat, req.Lng)
	ctx.Respond(&messages.Reply{Body: view, Err: err})
}
