package handler

import (
	"context"

	"Geocache/internal/game/app"
	"Geocache/internal/shared/transport"
	"Geocache/modules/kit/errx"
)

func mapBizCodeToClientCode(code errx.Code) int {
	switch code {
	case app.CodeInventoryFull:
		return transport.InventoryFull
	case app.CodeViewportTooLarge:
		return transport.ViewportTooLarge
	case app.CodeViewportInvalid, errx.CodeReqParamError:
		return transport.InvalidParam
	case errx.CodeUnauthorized:
		return transport.SessionInvalid
	default:
		return transport.SystemError
	}
}

func mapTechErrToClientCode(code errx.Code, reason string) int {
	if reason == app.ReasonActorTimeout.ReasonCode() {
		return transport.Timeout
	}
	switch code {
	case errx.CodeTimeout:
		return transport.Timeout
	case errx.CodeUnavailable:
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}

// HandleError 把错误翻译成客户端业务码和文案，并把原因码记进 access 日志。
func HandleError(ctx context.Context, err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}
	reason := errx.ReasonOf(err)
	if reason != "" {
		transport.SetErrorReason(ctx, reason)
	}

	var code errx.Code
	if e, ok := errx.As(err); ok {
		code = e.Code()
	}

	if errx.IsBiz(err) {
		return mapBizCodeToClientCode(code), errx.MessageOf(err)
	}
	return mapTechErrToClientCode(code, reason), "系统繁忙，请稍后重试"
}
