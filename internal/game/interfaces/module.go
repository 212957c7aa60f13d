package interfaces

import (
	"time"

	"github.com/gin-gonic/gin"

	"Geocache/internal/game/interfaces/handler"
	"Geocache/internal/game/interfaces/handler/http"
	gamews "Geocache/internal/game/interfaces/handler/ws"
	"Geocache/internal/game/service"
	"Geocache/internal/shared/session"
	transporthttp "Geocache/internal/shared/transport/http"
	"Geocache/internal/shared/transport/ws"
	"Geocache/modules/kit/logx"
)

type Module struct {
	wsHandler   *gamews.WsHandler
	httpHandler *http.HttpHandler
}

func New(rt handler.GameRuntime, svc *service.GameService, s session.Manager, tokenTTL time.Duration, log logx.Logger) *Module {
	game := handler.NewGame(rt, svc, s, tokenTTL, log)
	return &Module{
		wsHandler:   gamews.NewWsHandler(game),
		httpHandler: http.NewHttpHandler(game),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
