package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
		err   bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.input)
		if (err != nil) != tc.err {
			t.Errorf("ParseLevel(%q) err = %v, 期望出错 %v", tc.input, err, tc.err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, 期望 %v", tc.input, got, tc.want)
		}
	}
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	if err := Init(Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("期望未知格式返回错误")
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bytenews.log")
	if err := Init(Config{Level: "debug", Format: "json", File: path}); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}
	Infof("[test] hello %s", "world")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "[test] hello world") {
		t.Errorf("日志文件内容不符: %s", data)
	}
}
