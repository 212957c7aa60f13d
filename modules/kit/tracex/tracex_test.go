package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
	if _, ok := SpanIDFrom(ctx); ok {
		t.Fatalf("未设置 span 时不应读到值")
	}
}

func TestNewTraceID_长度与唯一(t *testing.T) {
	a, b := NewTraceID(), NewTraceID()
	if len(a) != 32 || a == b {
		t.Fatalf("期望 32 位 hex 且两次不同, a=%q b=%q", a, b)
	}
}

func TestNewSpanID_长度与唯一(t *testing.T) {
	a, b := NewSpanID(), NewSpanID()
	if len(a) != 16 || a == b {
		t.Fatalf("期望 16 位 hex 且两次不同, a=%q b=%q", a, b)
	}
}
