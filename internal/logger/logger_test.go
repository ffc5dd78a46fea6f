package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{
		Dir:      tmpDir,
		Filename: "release.log",
	})
	log.Info("release-log-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-test") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugWritesToStdoutOnly(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{
		Dir:      tmpDir,
		Filename: "debug.log",
	})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestZFallsBackWithoutInit(t *testing.T) {
	saved := L
	L = nil
	t.Cleanup(func() { L = saved })

	if Z() == nil {
		t.Fatalf("Z must never return nil")
	}
	if S() == nil {
		t.Fatalf("S must never return nil")
	}
	// 未初始化时输出不应 panic
	Infow("fallback-log-test", "key", "value")
}
