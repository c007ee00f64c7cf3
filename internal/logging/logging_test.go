package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "quiz.log")

	logger := newWithConsole(Options{Level: "debug", File: path}, &console)
	logger.Debug("quiz started")
	_ = logger.Sync()

	if !strings.Contains(console.String(), "quiz started") {
		t.Fatalf("expected console output, got %q", console.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", data, err)
	}
	if entry["msg"] != "quiz started" || entry["level"] != "DEBUG" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var console bytes.Buffer
	logger := newWithConsole(Options{Level: "warn"}, &console)
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	out := console.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	var console bytes.Buffer
	logger := newWithConsole(Options{Level: "chatty"}, &console)
	logger.Debug("debug line")
	logger.Info("info line")
	_ = logger.Sync()

	out := console.String()
	if strings.Contains(out, "debug line") || !strings.Contains(out, "info line") {
		t.Fatalf("unexpected console output %q", out)
	}
}
