package ws

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"Geocache/internal/shared/transport"
	"Geocache/modules/kit/logx"
)

type Group struct {
	prefix   string
	handlers map[string]HandlerFunc
}

// 路由层自己拒绝请求时写进访问日志的原因码。
const (
	ReasonBadRequest     = "bad_request"
	ReasonBadRoute       = "bad_route"
	ReasonUnknownGroup   = "unknown_group"
	ReasonUnknownHandler = "unknown_handler"
	ReasonNoResponse     = "no_response"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

func (g *Group) Handle(name string, h HandlerFunc) {
	g.handlers[name] = h
}

type Router struct {
	groups map[string]*Group
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewNop()
	}
	return &Router{
		groups: make(map[string]*Group),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	group := r.groups[prefix]
	if group == nil {
		group = &Group{
			prefix:   prefix,
			handlers: make(map[string]HandlerFunc),
		}
	}
	r.groups[prefix] = group
	return group
}

// Register 挂载多个业务模块。
func (r *Router) Register(modules ...Registrar) {
	for _, m := range modules {
		m.WsRegister(r)
	}
}

// req.Body.Name(路径)：例如交换格子 game(组标识).exchange(路由标识)
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	ctx := r.prepareDispatchContext(req, resp)
	defer r.writeAccessLog(ctx, resp)

	if !r.validateDispatchInput(ctx, req, resp) {
		return
	}

	handlerFunc := r.findHandler(ctx, req.Body.Name, resp)
	if handlerFunc == nil {
		return
	}

	handlerFunc(ctx, req, resp)
}

func (r *Router) prepareDispatchContext(req *WsMsgReq, resp *WsMsgResp) context.Context {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := transport.NewContext(action)
	if req != nil && req.Conn != nil {
		// 已绑定会话的连接，每条消息的访问日志都带上 sid
		if sid, ok := req.Conn.GetProperty(ConnKeySID).(string); ok {
			transport.SetSessionID(ctx, sid)
		}
		transport.AddFields(ctx, zap.String("remote", req.Conn.Addr()))
	}
	if req != nil && req.Body != nil {
		transport.AddFields(ctx, zap.Int64("seq", req.Body.Seq))
	}

	if resp != nil && resp.Body != nil {
		// 先置系统错误，避免 handler 漏设时出现“成功假象”。
		resp.Body.Code = transport.SystemError
		resp.Body.Msg = nil
	}
	return ctx
}

func (r *Router) validateDispatchInput(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) bool {
	if req != nil && req.Body != nil && resp != nil && resp.Body != nil {
		return true
	}
	r.reject(ctx, resp, ReasonBadRequest, "参数有误")
	return false
}

func (r *Router) findHandler(ctx context.Context, route string, resp *WsMsgResp) HandlerFunc {
	prefix, handler, ok := parseRouteName(route)
	if !ok {
		r.reject(ctx, resp, ReasonBadRoute, "路由参数有误")
		return nil
	}

	group := r.groups[prefix]
	if group == nil {
		r.reject(ctx, resp, ReasonUnknownGroup, "路由组不存在")
		return nil
	}

	handlerFunc := group.handlers[handler]
	if handlerFunc == nil {
		r.reject(ctx, resp, ReasonUnknownHandler, "路由处理器不存在")
		return nil
	}
	return handlerFunc
}

func parseRouteName(name string) (string, string, bool) {
	split := strings.Split(name, ".")
	if len(split) != 2 {
		return "", "", false
	}
	prefix := split[0]
	handler := split[1]
	if prefix == "" || handler == "" {
		return "", "", false
	}
	return prefix, handler, true
}

// reject 以 InvalidParam 拒绝请求，并把原因码记进访问日志。
func (r *Router) reject(ctx context.Context, resp *WsMsgResp, reason, msg string) {
	transport.SetErrorReason(ctx, reason)
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.InvalidParam
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	bizCode := transport.SystemError
	if resp != nil && resp.Body != nil {
		bizCode = resp.Body.Code
	}
	if bizCode == transport.SystemError {
		// handler 没有写响应时留下的默认码
		transport.SetDefaultErrorReason(ctx, ReasonNoResponse)
	}
	transport.SetBizCode(ctx, transport.BizCode(bizCode))
	transport.WriteAccessLog(ctx, r.log)
}
