package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var reTimestampPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\tINFO\t`)

func TestNewWithWriter_TimestampedLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(zapcore.InfoLevel, zapcore.AddSync(&buf))

	logger.Info("Fetching EPG data", zap.String("url", "http://example.com/a.xml"))
	logger.Debug("hidden")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	if !reTimestampPrefix.MatchString(lines[0]) {
		t.Fatalf("unexpected line format: %q", lines[0])
	}
	if !strings.Contains(lines[0], `"url": "http://example.com/a.xml"`) {
		t.Fatalf("expected url field, got %q", lines[0])
	}
}

func TestNew_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epgi.log")
	if err := os.WriteFile(path, []byte("existing line\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	cfg := DefaultConfig()
	cfg.FileName = path
	logger, closer := New(cfg)
	logger.Info("program started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "existing line\n") {
		t.Fatalf("expected existing content to be kept, got %q", content)
	}
	if !strings.Contains(content, "program started") {
		t.Fatalf("expected new entry, got %q", content)
	}
	if zap.L() != logger {
		t.Fatal("expected logger to be installed globally")
	}
}
