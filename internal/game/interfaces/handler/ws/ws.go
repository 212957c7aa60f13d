package ws

import (
	"context"

	"go.uber.org/zap"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/interfaces/handler"
	"Geocache/internal/game/interfaces/handler/ws/dto"
	"Geocache/internal/shared/transport"
	"Geocache/internal/shared/transport/ws"
)

type WsHandler struct {
	game *handler.Game
}

func NewWsHandler(g *handler.Game) *WsHandler {
	return &WsHandler{game: g}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	sessionGroup := r.Group("session")
	sessionGroup.Handle("bind", h.Bind)

	gameGroup := r.Group("game")
	gameGroup.Handle("view", h.View)
	gameGroup.Handle("exchange", h.Exchange)
	gameGroup.Handle("inventory", h.Inventory)
}

// Bind 把连接绑定到令牌对应的会话，之后该会话的显示变化都会推到这条连接。
func (h *WsHandler) Bind(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !validReq(wsReq, wsResp) {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req dto.BindReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	sid, err := handler.Authenticate(req.Token)
	if err != nil {
		h.error(ctx, wsResp, "game ws bind", err)
		return
	}

	transport.SetSessionID(ctx, string(sid))
	h.game.Session.Bind(string(sid), wsReq.Conn)
	h.ok(wsResp, dto.BindResp{Sid: string(sid)})
}

func (h *WsHandler) View(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.sid(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.ViewReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	vp, err := handler.NewViewport(req.South, req.West, req.North, req.East)
	if err != nil {
		h.error(ctx, wsResp, "game ws view", err)
		return
	}
	view, err := h.game.Runtime.Observe(ctx, sid, vp)
	if err != nil {
		h.error(ctx, wsResp, "game ws view", err)
		return
	}
	h.ok(wsResp, view)
}

func (h *WsHandler) Exchange(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.sid(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.ExchangeReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	cell := grid.Cell{I: req.I, J: req.J}
	transport.AddFields(ctx, zap.Stringer("cell", cell))
	res, err := h.game.Runtime.Exchange(ctx, sid, cell)
	if err != nil {
		h.error(ctx, wsResp, "game ws exchange", err, zap.Stringer("cell", cell))
		if res != nil {
			// 拒绝时带回未变化的状态
			wsResp.Body.Msg = res
		}
		return
	}
	h.ok(wsResp, res)
}

func (h *WsHandler) Inventory(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.sid(wsReq, wsResp)
	if !ok {
		return
	}
	inv, err := h.game.Runtime.Inventory(ctx, sid)
	if err != nil {
		h.error(ctx, wsResp, "game ws inventory", err)
		return
	}
	h.ok(wsResp, inv)
}

func validReq(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) bool {
	return wsReq != nil && wsReq.Body != nil && wsReq.Conn != nil && wsResp != nil && wsResp.Body != nil
}

// sid 取连接绑定的会话，未绑定时直接写 SessionInvalid。
func (h *WsHandler) sid(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (entity.SessionID, bool) {
	if !validReq(wsReq, wsResp) {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return "", false
	}
	sid, ok := h.game.Session.GetSID(wsReq.Conn)
	if !ok {
		h.fail(wsResp, transport.SessionInvalid, "session 无效")
		return "", false
	}
	return entity.SessionID(sid), true
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error, fields ...zap.Field) {
	code, msg := handler.HandleError(ctx, err)
	h.game.Report(ctx, action, err, fields...)
	h.fail(resp, code, msg)
}
