package security

import (
	"testing"
	"time"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award("sid-1", time.Hour); err == nil {
		t.Fatalf("期望 JWT_SECRET 为空时 Award 返回错误")
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award("sid-42", time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if token == "" {
		t.Fatalf("期望 token 非空")
	}

	_, claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims == nil || claims.Sid != "sid-42" {
		t.Fatalf("期望 claims.Sid==sid-42, got=%v", claims)
	}
}

func TestParseToken_非法与密钥不符(t *testing.T) {
	t.Setenv("JWT_SECRET", "k1")
	if _, _, err := ParseToken("not-a-jwt"); err == nil {
		t.Fatalf("非法 token 应解析失败")
	}

	token, err := Award("sid", time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	t.Setenv("JWT_SECRET", "k2")
	if _, _, err := ParseToken(token); err == nil {
		t.Fatalf("换密钥后应解析失败")
	}
}

func TestAward_空会话id(t *testing.T) {
	t.Setenv("JWT_SECRET", "k1")
	if _, err := Award("", time.Hour); err != ErrSessionIDMissing {
		t.Fatalf("期望 ErrSessionIDMissing, got %v", err)
	}
}
