package grpc

import (
	"context"
	"strings"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"Geocache/internal/shared/transport"
	"Geocache/modules/kit/logx"
	"Geocache/modules/kit/tracex"
)

// traceHeaders 是 metadata 头与 ctx 里 trace 字段的对应关系。
var traceHeaders = []struct {
	header string
	from   func(context.Context) (string, bool)
	with   func(context.Context, string) context.Context
}{
	{"x-trace-id", tracex.TraceIDFrom, tracex.WithTraceID},
	{"x-span-id", tracex.SpanIDFrom, tracex.WithSpanID},
}

func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn, invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

func StreamClientTraceInterceptor() gogrpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *gogrpc.StreamDesc, cc *gogrpc.ClientConn, method string, streamer gogrpc.Streamer, opts ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
		return streamer(injectTraceToOutgoing(ctx), desc, cc, method, opts...)
	}
}

// UnaryServerTraceInterceptor 沿用调用方的 trace_id（没有则新生成），每次调用写一行访问日志。
func UnaryServerTraceInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = transport.NewContextWithParent(extractTraceFromIncoming(ctx), "GRPC "+info.FullMethod)
		resp, err := handler(ctx, req)
		finishAccessLog(ctx, log, err)
		return resp, err
	}
}

func StreamServerTraceInterceptor(log logx.Logger) gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		ctx := transport.NewContextWithParent(extractTraceFromIncoming(ss.Context()), "GRPC "+info.FullMethod)
		err := handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
		finishAccessLog(ctx, log, err)
		return err
	}
}

type wrappedServerStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// finishAccessLog 把 grpc 状态码折算成业务码，原因码取状态码名（如 deadline_exceeded）。
func finishAccessLog(ctx context.Context, log logx.Logger, err error) {
	code := status.Code(err)
	switch code {
	case codes.OK:
		transport.SetBizCode(ctx, transport.BizCode(transport.OK))
	case codes.Unavailable:
		transport.SetBizCode(ctx, transport.BizCode(transport.Unavailable))
	case codes.DeadlineExceeded:
		transport.SetBizCode(ctx, transport.BizCode(transport.Timeout))
	case codes.InvalidArgument, codes.NotFound:
		transport.SetBizCode(ctx, transport.BizCode(transport.InvalidParam))
	default:
		transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
	}
	if code != codes.OK {
		transport.SetErrorReason(ctx, reasonOf(code))
	}
	transport.WriteAccessLog(ctx, log)
}

func reasonOf(c codes.Code) string {
	// codes.Code 的 String() 是 DeadlineExceeded 这样的驼峰
	name := c.String()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func injectTraceToOutgoing(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, h := range traceHeaders {
		if v, ok := h.from(ctx); ok {
			ctx = metadata.AppendToOutgoingContext(ctx, h.header, v)
		}
	}
	return ctx
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	for _, h := range traceHeaders {
		if values := md.Get(h.header); len(values) > 0 && values[0] != "" {
			ctx = h.with(ctx, values[0])
		}
	}
	return ctx
}
