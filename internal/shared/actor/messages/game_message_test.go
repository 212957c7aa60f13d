package messages

import (
	"context"
	"testing"
	"time"

	"Geocache/modules/kit/tracex"
)

func TestNewGameBase_携带trace字段(t *testing.T) {
	ctx := tracex.WithSpanID(tracex.WithTraceID(context.Background(), "t-1"), "s-1")
	ctx, cancel := context.WithTimeout(ctx, time.Millisecond)
	cancel()

	m := NewGameBase(ctx, "sid")
	if m.SessionID() != "sid" || m.TraceID != "t-1" || m.SpanID != "s-1" {
		t.Fatalf("期望带上 sid/trace/span, got %+v", m)
	}
	out := m.Context()
	if tid, _ := tracex.TraceIDFrom(out); tid != "t-1" {
		t.Fatalf("期望还原 trace_id, got %q", tid)
	}
	if sid, _ := tracex.SpanIDFrom(out); sid != "s-1" {
		t.Fatalf("期望还原 span_id, got %q", sid)
	}
	if out.Err() != nil {
		t.Fatalf("期望不继承调用方的取消, got %v", out.Err())
	}
}

func TestNewGameBase_无trace时为空(t *testing.T) {
	m := NewGameBase(context.Background(), "sid")
	if m.TraceID != "" || m.SpanID != "" {
		t.Fatalf("期望 trace 字段为空, got %+v", m)
	}
	if _, ok := tracex.TraceIDFrom(m.Context()); ok {
		t.Fatalf("期望还原出的 ctx 不带 trace_id")
	}
}
