package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"Geocache/internal/shared/transport"
	"Geocache/modules/kit/logx"
	"Geocache/modules/kit/tracex"
)

func TestServer_健康状态切换(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen err=%v", err)
	}
	s := NewServer(nil)
	go func() { _ = s.Serve(lis) }()
	defer s.Stop(context.Background())

	addr := lis.Addr().String()
	st, err := CheckHealth(context.Background(), addr, time.Second)
	if err != nil || st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("启动前期望 NOT_SERVING, got %v err=%v", st, err)
	}
	s.SetServing(true)
	st, err = CheckHealth(context.Background(), addr, time.Second)
	if err != nil || st != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("期望 SERVING, got %v err=%v", st, err)
	}
}

func TestTrace_注入与提取(t *testing.T) {
	ctx := tracex.WithTraceID(context.Background(), "t-1")
	ctx = tracex.WithSpanID(ctx, "s-1")
	out := injectTraceToOutgoing(ctx)
	md, _ := metadata.FromOutgoingContext(out)

	in := extractTraceFromIncoming(metadata.NewIncomingContext(context.Background(), md))
	if id, ok := tracex.TraceIDFrom(in); !ok || id != "t-1" {
		t.Fatalf("期望 trace_id=t-1, got %q", id)
	}
	if id, ok := tracex.SpanIDFrom(in); !ok || id != "s-1" {
		t.Fatalf("期望 span_id=s-1, got %q", id)
	}
}

func TestUnaryServerTrace_访问日志沿用或生成trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	icpt := UnaryServerTraceInterceptor(logx.NewZapLogger(zap.New(core)))
	info := &gogrpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	var seen context.Context
	ok := func(ctx context.Context, req any) (any, error) {
		seen = ctx
		return "ok", nil
	}
	incoming := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-trace-id", "t-up"))
	if _, err := icpt(incoming, nil, info, ok); err != nil {
		t.Fatalf("handler err=%v", err)
	}
	if id, _ := tracex.TraceIDFrom(seen); id != "t-up" {
		t.Fatalf("期望沿用上游 trace_id, got %q", id)
	}
	if transport.FromContext(seen) == nil {
		t.Fatalf("期望 handler 拿到访问日志上下文")
	}

	fail := func(ctx context.Context, req any) (any, error) {
		seen = ctx
		return nil, status.Error(codes.DeadlineExceeded, "slow")
	}
	if _, err := icpt(context.Background(), nil, info, fail); status.Code(err) != codes.DeadlineExceeded {
		t.Fatalf("期望原样返回错误, got %v", err)
	}
	if id, ok := tracex.TraceIDFrom(seen); !ok || len(id) != 32 {
		t.Fatalf("期望生成新 trace_id, got %q", id)
	}

	entries := logs.FilterMessage("access").All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条访问日志, got %d", len(entries))
	}
	first, second := entries[0].ContextMap(), entries[1].ContextMap()
	if first["trace_id"] != "t-up" || first["biz_code"] != int64(transport.OK) || first["action"] != "GRPC /grpc.health.v1.Health/Check" {
		t.Fatalf("第一条访问日志字段错误: %v", first)
	}
	if second["biz_code"] != int64(transport.Timeout) || second["error_reason"] != "deadline_exceeded" {
		t.Fatalf("期望超时业务码与原因码, got %v", second)
	}
}

func TestReasonOf_状态码转下划线(t *testing.T) {
	cases := map[codes.Code]string{
		codes.Unavailable:      "unavailable",
		codes.DeadlineExceeded: "deadline_exceeded",
		codes.InvalidArgument:  "invalid_argument",
	}
	for c, want := range cases {
		if got := reasonOf(c); got != want {
			t.Fatalf("%v: 期望 %q, got %q", c, want, got)
		}
	}
}
