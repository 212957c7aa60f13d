package handler

import (
	"context"
	"errors"
	"testing"

	"Geocache/internal/game/app"
	"Geocache/internal/shared/transport"
	"Geocache/modules/kit/errx"
)

func TestHandleError_业务码映射(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"背包已满", app.ErrInventoryFull.WithReason(app.ReasonBothHolding), transport.InventoryFull},
		{"视口过大", app.ErrViewportTooLarge, transport.ViewportTooLarge},
		{"视口参数", app.ErrViewportInvalid.WithReason(app.ReasonBBoxFormat), transport.InvalidParam},
		{"请求参数", errx.ErrReqParamERR, transport.InvalidParam},
		{"未登录", errx.ErrUnauthorized, transport.SessionInvalid},
		{"actor 超时", app.ErrSessionUnavailable.WithReason(app.ReasonActorTimeout), transport.Timeout},
		{"actor 停止", app.ErrSessionUnavailable.WithReason(app.ReasonActorStopped), transport.Unavailable},
		{"裸错误", errors.New("boom"), transport.SystemError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := HandleError(context.Background(), tc.err)
			if code != tc.want {
				t.Fatalf("期望 code=%d, got %d", tc.want, code)
			}
			if msg == "" {
				t.Fatalf("期望有提示文案")
			}
		})
	}
}

func TestHandleError_写入原因码(t *testing.T) {
	ctx := transport.NewContext("test")
	HandleError(ctx, app.ErrInventoryFull.WithReason(app.ReasonBothHolding))
	al := transport.FromContext(ctx)
	if al == nil || al.ErrorReason != string(app.ReasonBothHolding) {
		t.Fatalf("期望 access 日志带 reason=both_holding, got %+v", al)
	}
}

func TestHandleError_系统错误隐藏细节(t *testing.T) {
	_, msg := HandleError(context.Background(), app.ErrSessionUnavailable.WithCause(errors.New("mailbox full")))
	if msg != "系统繁忙，请稍后重试" {
		t.Fatalf("期望通用文案, got %q", msg)
	}
}
