package app

import (
	"Geocache/internal/game/entity"
	"Geocache/modules/kit/errx"
)

// Code 表示游戏域错误码。
type Code = errx.Code

const (
	CodeInventoryFull    Code = entity.CodeInventoryFull
	CodeViewportTooLarge Code = "GAME_VIEWPORT_TOO_LARGE"
	CodeViewportInvalid  Code = "GAME_VIEWPORT_INVALID"
	// CodeSessionUnavailable 复用 kit 的统一系统码。
	CodeSessionUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

var (
	ErrInventoryFull      = entity.ErrInventoryFull
	ErrViewportTooLarge   = errx.NewBiz(CodeViewportTooLarge, "可视范围过大，请放大地图")
	ErrViewportInvalid    = errx.NewBiz(CodeViewportInvalid, "可视范围参数错误")
	ErrSessionUnavailable = errx.NewSys(CodeSessionUnavailable, "会话不可用")
)

// Reason 是对外暴露的原因码，写进 errx.Error 的 data.reason。
type Reason string

func (r Reason) ReasonCode() string {
	return string(r)
}

const (
	ReasonBBoxFormat     Reason = "bbox_format"
	ReasonBBoxDegenerate Reason = "bbox_degenerate"
	ReasonCellIndex      Reason = "cell_index"
	ReasonLatLng         Reason = "lat_lng"
	ReasonActorTimeout   Reason = "actor_timeout"
	ReasonActorStopped   Reason = "actor_stopped"
	ReasonBothHolding    Reason = "both_holding"
	ReasonHandlerPanic   Reason = "handler_panic"
)
