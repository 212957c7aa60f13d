package transport

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"Geocache/modules/kit/logx"
	"Geocache/modules/kit/tracex"
)

// AccessLog 是单次请求的访问日志上下文，HTTP/WS/gRPC 共用。
// handler 在处理过程中往里补会话 id、原因码和额外字段，入口在请求结束时统一输出一行。
type AccessLog struct {
	mu          sync.Mutex
	BizCode     BizCode
	ErrorReason string
	SessionID   string
	extra       []zap.Field
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 以 background 为父 context 创建访问日志上下文，WS 消息使用。
func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留父 context 的取消信号与 trace_id（没有则新生成），每个请求一个新 span_id。
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		ctx = tracex.WithTraceID(ctx, tracex.NewTraceID())
	}
	ctx = tracex.WithSpanID(ctx, tracex.NewSpanID())

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.BizCode = code
		al.mu.Unlock()
	}
}

// SetErrorReason 记下失败原因码（如 inventory_full、actor_timeout），空串不覆盖已有原因。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.ErrorReason = reason
		al.mu.Unlock()
	}
}

// SetDefaultErrorReason 只在还没有原因码时写入，供入口层兜底。
func SetDefaultErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		if al.ErrorReason == "" {
			al.ErrorReason = reason
		}
		al.mu.Unlock()
	}
}

// SetSessionID 记下本次请求所属的会话。
func SetSessionID(ctx context.Context, sid string) {
	if sid == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.SessionID = sid
		al.mu.Unlock()
	}
}

// AddFields 追加访问日志字段，例如交换的格子或 HTTP 状态码。
func AddFields(ctx context.Context, fields ...zap.Field) {
	if len(fields) == 0 {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.extra = append(al.extra, fields...)
		al.mu.Unlock()
	}
}

// WriteAccessLog 输出访问日志，入口中间件在请求结束时调用。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	al.mu.Lock()
	code := al.BizCode
	fields := make([]zap.Field, 0, 4+len(al.extra))
	fields = append(fields, zap.Duration("latency", time.Since(al.startTime)))
	if al.SessionID != "" {
		fields = append(fields, zap.String("sid", al.SessionID))
	}
	if code == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	fields = append(fields, al.extra...)
	action := al.action
	al.mu.Unlock()

	logx.ReportAccess(ctx, log, action, int(code), fields...)
}
