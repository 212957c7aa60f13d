package utils

import "testing"

func TestSnowflake_单调递增(t *testing.T) {
	s, err := NewSnowflake(3)
	if err != nil {
		t.Fatalf("NewSnowflake err=%v", err)
	}
	prev := s.NextID()
	for i := 0; i < 10000; i++ {
		id := s.NextID()
		if id <= prev {
			t.Fatalf("期望递增, prev=%d id=%d", prev, id)
		}
		prev = id
	}
}

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(1 << 10); err == nil {
		t.Fatalf("期望节点越界报错")
	}
}

func TestRandSeq(t *testing.T) {
	a, b := RandSeq(16), RandSeq(16)
	if len(a) != 16 || a == b {
		t.Fatalf("期望 16 位且两次不同, a=%q b=%q", a, b)
	}
}

func TestNewSnowflakeFromEnv(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "7")
	s, err := NewSnowflakeFromEnv()
	if err != nil || s.nodeID != 7 {
		t.Fatalf("期望节点 7, got %+v err=%v", s, err)
	}
	t.Setenv("SNOWFLAKE_NODE_ID", "x")
	if _, err := NewSnowflakeFromEnv(); err == nil {
		t.Fatalf("非法节点号应报错")
	}
}
