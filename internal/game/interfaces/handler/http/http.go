package http

import (
	"context"
	"math"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Geocache/internal/game/app"
	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/interfaces/handler"
	"Geocache/internal/game/interfaces/handler/http/dto"
	"Geocache/internal/shared/transport"
)

const ctxKeySID = "sid"

type HttpHandler struct {
	game *handler.Game
}

func NewHttpHandler(g *handler.Game) *HttpHandler {
	return &HttpHandler{game: g}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	api := group.Group("/api")
	api.POST("/session", h.OpenSession)

	authed := api.Group("")
	authed.Use(h.Bearer())
	authed.DELETE("/session", h.CloseSession)

	gameGroup := authed.Group("/game")
	gameGroup.GET("/view", h.View)
	gameGroup.POST("/cells/:i/:j/exchange", h.Exchange)
	gameGroup.GET("/inventory", h.Inventory)
	gameGroup.GET("/locate", h.Locate)
}

// Bearer 校验 Authorization: Bearer <token>，把会话 id 放进 gin.Context。
func (h *HttpHandler) Bearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok {
			token = ""
		}
		sid, err := handler.Authenticate(token)
		if err != nil {
			h.error(c.Request.Context(), c, "game auth", err)
			c.Abort()
			return
		}
		c.Set(ctxKeySID, sid)
		transport.SetSessionID(c.Request.Context(), string(sid))
		c.Next()
	}
}

func (h *HttpHandler) OpenSession(c *gin.Context) {
	st, err := h.game.OpenSession()
	if err != nil {
		h.error(c.Request.Context(), c, "game open session", err)
		return
	}
	transport.SetSessionID(c.Request.Context(), st.Sid)
	h.ok(c, st)
}

func (h *HttpHandler) CloseSession(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.game.CloseSession(ctx, sidFrom(c)); err != nil {
		h.error(ctx, c, "game close session", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) View(c *gin.Context) {
	ctx := c.Request.Context()

	vp, err := handler.ParseBBox(c.Query("bbox"))
	if err != nil {
		h.error(ctx, c, "game view", err)
		return
	}
	view, err := h.game.Runtime.Observe(ctx, sidFrom(c), vp)
	if err != nil {
		h.error(ctx, c, "game view", err)
		return
	}

	if c.Query("format") == "geojson" {
		// FeatureCollection 原样返回，便于直接喂给地图库
		c.JSON(nethttp.StatusOK, h.game.Service.GeoJSON(view))
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Exchange(c *gin.Context) {
	ctx := c.Request.Context()

	i, errI := strconv.Atoi(c.Param("i"))
	j, errJ := strconv.Atoi(c.Param("j"))
	if errI != nil || errJ != nil {
		h.error(ctx, c, "game exchange", app.ErrViewportInvalid.WithReason(app.ReasonCellIndex).WithDataMap(map[string]any{
			"i": c.Param("i"),
			"j": c.Param("j"),
		}))
		return
	}

	cell := grid.Cell{I: i, J: j}
	transport.AddFields(ctx, zap.Stringer("cell", cell))
	res, err := h.game.Runtime.Exchange(ctx, sidFrom(c), cell)
	if err != nil {
		code, msg := handler.HandleError(ctx, err)
		h.game.Report(ctx, "game exchange", err, zap.Stringer("cell", cell))
		c.JSON(nethttp.StatusOK, dto.ErrorWithData(code, msg, res))
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Inventory(c *gin.Context) {
	ctx := c.Request.Context()
	inv, err := h.game.Runtime.Inventory(ctx, sidFrom(c))
	if err != nil {
		h.error(ctx, c, "game inventory", err)
		return
	}
	h.ok(c, inv)
}

func (h *HttpHandler) Locate(c *gin.Context) {
	ctx := c.Request.Context()

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil || math.IsNaN(lat) || math.IsNaN(lng) {
		h.error(ctx, c, "game locate", app.ErrViewportInvalid.WithReason(app.ReasonLatLng))
		return
	}
	res, err := h.game.Runtime.Locate(ctx, sidFrom(c), lat, lng)
	if err != nil {
		h.error(ctx, c, "game locate", err)
		return
	}
	h.ok(c, res)
}

func sidFrom(c *gin.Context) entity.SessionID {
	sid, _ := c.Get(ctxKeySID)
	s, _ := sid.(entity.SessionID)
	return s
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.game.Report(ctx, action, err)
	h.fail(c, code, msg)
}
