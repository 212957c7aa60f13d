package handler

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Geocache/internal/game/app"
	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/service"
	"Geocache/internal/shared/security"
	"Geocache/internal/shared/session"
	"Geocache/modules/kit/errx"
	"Geocache/modules/kit/logx"
)

// GameRuntime 是接口层能看到的会话运行时，由 actor.Runtime 实现。
type GameRuntime interface {
	Observe(ctx context.Context, sid entity.SessionID, vp grid.Viewport) (*service.View, error)
	Exchange(ctx context.Context, sid entity.SessionID, cell grid.Cell) (*service.ExchangeView, error)
	Inventory(ctx context.Context, sid entity.SessionID) (service.InventoryView, error)
	Locate(ctx context.Context, sid entity.SessionID, lat, lng float64) (*service.LocateView, error)
	Close(ctx context.Context, sid entity.SessionID) error
}

// Game 汇总 HTTP 和 WS 两套入口共用的依赖。
type Game struct {
	Runtime  GameRuntime
	Service  *service.GameService
	Session  session.Manager
	TokenTTL time.Duration
	Log      logx.Logger
}

func NewGame(rt GameRuntime, svc *service.GameService, s session.Manager, tokenTTL time.Duration, log logx.Logger) *Game {
	if log == nil {
		log = logx.NewNop()
	}
	return &Game{
		Runtime:  rt,
		Service:  svc,
		Session:  s,
		TokenTTL: tokenTTL,
		Log:      log,
	}
}

type SessionToken struct {
	Sid   string `json:"sid"`
	Token string `json:"token"`
}

// OpenSession 分配新的会话 id 并签发令牌；会话 actor 在第一次请求时才创建。
func (g *Game) OpenSession() (*SessionToken, error) {
	sid := uuid.NewString()
	token, err := security.Award(sid, g.TokenTTL)
	if err != nil {
		return nil, errx.ErrInternal.WithData("op", "award token").WithCause(err)
	}
	return &SessionToken{Sid: sid, Token: token}, nil
}

// CloseSession 停掉会话 actor，并解绑它的所有 ws 连接。
func (g *Game) CloseSession(ctx context.Context, sid entity.SessionID) error {
	if err := g.Runtime.Close(ctx, sid); err != nil {
		return err
	}
	if g.Session != nil {
		g.Session.UnbindSID(string(sid))
	}
	return nil
}

// Authenticate 校验令牌并取出会话 id。
func Authenticate(token string) (entity.SessionID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errx.ErrUnauthorized.WithData("reason", "token_missing")
	}
	_, claims, err := security.ParseToken(token)
	if err != nil {
		return "", errx.ErrUnauthorized.WithData("reason", "token_invalid").WithCause(err)
	}
	return entity.SessionID(claims.Sid), nil
}

// ParseBBox 解析 "south,west,north,east"。
func ParseBBox(raw string) (grid.Viewport, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return grid.Viewport{}, app.ErrViewportInvalid.WithReason(app.ReasonBBoxFormat).WithData("bbox", raw)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return grid.Viewport{}, app.ErrViewportInvalid.WithReason(app.ReasonBBoxFormat).WithData("bbox", raw)
		}
		v[i] = f
	}
	return NewViewport(v[0], v[1], v[2], v[3])
}

// NewViewport 校验视口。越出经纬度范围、south > north 或 west > east 都视为参数错误，
// 零面积合法（得到空视图）。
func NewViewport(south, west, north, east float64) (grid.Viewport, error) {
	vp := grid.Viewport{South: south, West: west, North: north, East: east}
	for _, f := range []float64{south, west, north, east} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return grid.Viewport{}, app.ErrViewportInvalid.WithReason(app.ReasonBBoxFormat)
		}
	}
	if !vp.InRange() {
		return grid.Viewport{}, app.ErrViewportInvalid.WithReason(app.ReasonLatLng).WithDataMap(map[string]any{
			"south": south, "west": west, "north": north, "east": east,
		})
	}
	if south > north || west > east {
		return grid.Viewport{}, app.ErrViewportInvalid.WithReason(app.ReasonBBoxDegenerate).WithDataMap(map[string]any{
			"south": south, "west": west, "north": north, "east": east,
		})
	}
	return vp, nil
}

// Report 按错误类型打一次日志：业务拒绝记 INFO，技术错误记 ERROR。
func (g *Game) Report(ctx context.Context, action string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	if errx.IsBiz(err) {
		logx.ReportBiz(ctx, g.Log, logx.NewBizLog(action, errx.ReasonOf(err), errx.MessageOf(err)), fields...)
		return
	}
	logx.ReportSysError(ctx, g.Log, logx.NewSysLog(action, err), fields...)
}
