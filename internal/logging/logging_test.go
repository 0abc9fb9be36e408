package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, cleanup, err := newLogger("info", "", &stdout, &stderr)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("hello", "item_id", 7)
	logger.Error("boom")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(stdout.String(), "hello") || !strings.Contains(stdout.String(), "item_id=7") {
		t.Errorf("expected info record on stdout, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "boom") {
		t.Error("error record should not go to stdout")
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("expected error record on stderr, got %q", stderr.String())
	}
}

func TestWithAttrsKeepsRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, cleanup, err := newLogger("debug", "", &stdout, &stderr)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer cleanup()

	logger.With("request_id", "abc").WithGroup("req").Error("failed", "status", 500)

	if !strings.Contains(stderr.String(), "request_id=abc") || !strings.Contains(stderr.String(), "req.status=500") {
		t.Errorf("unexpected stderr output %q", stderr.String())
	}
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zaloga.log")
	var stdout, stderr bytes.Buffer
	logger, cleanup, err := newLogger("info", path, &stdout, &stderr)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}

	logger.Info("to file")
	logger.Error("also to file")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") || !strings.Contains(string(data), "also to file") {
		t.Errorf("log file missing records: %q", data)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New("loud", ""); err == nil {
		t.Error("expected error for unknown level")
	}
}
