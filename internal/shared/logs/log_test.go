package logs

import (
	"path/filepath"
	"testing"

	"Geocache/internal/shared/serverconfig"

	"go.uber.org/zap/zapcore"
)

func TestInit_写文件并可调整级别(t *testing.T) {
	cfg := serverconfig.LogConfig{
		FileDir: filepath.Join(t.TempDir(), "game.log"),
		Level:   "WARN",
	}
	if err := Init("test", cfg); err != nil {
		t.Fatalf("Init err=%v", err)
	}
	if Level() != zapcore.WarnLevel {
		t.Fatalf("期望大小写不敏感地解析级别, got=%v", Level())
	}

	SetLevel("debug")
	if Level() != zapcore.DebugLevel {
		t.Fatalf("SetLevel 未生效, got=%v", Level())
	}
	SetLevel("not-a-level")
	if Level() != zapcore.InfoLevel {
		t.Fatalf("非法级别应回退 info, got=%v", Level())
	}
	Info("hello")
	Sync()
}
