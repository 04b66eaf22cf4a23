package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesConsoleLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{path}, ErrorOutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("converted file", Args(String("file", "a.mp3"), Int("completed", 3))...)
	logger.Debug("suppressed at info level")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "INFO converted file") {
		t.Fatalf("missing info line: %q", out)
	}
	if !strings.Contains(out, "file=a.mp3") || !strings.Contains(out, "completed=3") {
		t.Fatalf("missing attrs: %q", out)
	}
	if strings.Contains(out, "suppressed") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}, ErrorOutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Warn("transcoder exited", Args(Error(os.ErrNotExist))...)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"level":"warn"`, `"msg":"transcoder exited"`, `"ts":`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %q", want, out)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
