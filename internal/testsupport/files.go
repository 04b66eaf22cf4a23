package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// Stub transcoder behaviors.
const (
	// StubOK exits zero without writing anything.
	StubOK = "#!/bin/sh\nexit 0\n"
	// StubFail writes a diagnostic to stderr and exits non-zero.
	StubFail = "#!/bin/sh\necho boom >&2\nexit 1\n"
	// StubHang sleeps far longer than any test timeout.
	StubHang = "#!/bin/sh\nsleep 60\n"
)

// WriteStubTranscoder writes a shell-script transcoder with the given body
// into a temp directory and returns its path.
func WriteStubTranscoder(t testing.TB, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-transcoder")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub transcoder: %v", err)
	}
	return path
}

// WriteAudioTree creates an input tree with the given relative files and
// returns the root. Parent directories are created as needed.
func WriteAudioTree(t testing.TB, relPaths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range relPaths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte("riff"), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}
