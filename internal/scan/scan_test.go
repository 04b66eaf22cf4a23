package scan_test

import (
	"path/filepath"
	"testing"

	"tunepress/internal/scan"
	"tunepress/internal/testsupport"
)

func TestAudioWalksAndFilters(t *testing.T) {
	root := testsupport.WriteAudioTree(t,
		"album/01 intro.WAV",
		"album/02 song.flac",
		"album/cover.jpg",
		"notes.txt",
		"single.mp3",
	)

	jobs, err := scan.Audio(root, "ogg")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	wantRels := []string{
		filepath.Join("album", "01 intro.WAV"),
		filepath.Join("album", "02 song.flac"),
		"single.mp3",
	}
	if len(jobs) != len(wantRels) {
		t.Fatalf("got %d jobs, want %d: %+v", len(jobs), len(wantRels), jobs)
	}
	for i, want := range wantRels {
		if jobs[i].Rel != want {
			t.Errorf("job %d rel = %q, want %q", i, jobs[i].Rel, want)
		}
		if jobs[i].Source != filepath.Join(root, want) {
			t.Errorf("job %d source = %q", i, jobs[i].Source)
		}
	}
}

func TestAudioSkipsTargetFormat(t *testing.T) {
	root := testsupport.WriteAudioTree(t,
		"a.wav",
		"b.mp3",
		"c.MP3",
		"sub/d.flac",
	)

	jobs, err := scan.Audio(root, "mp3")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	wantRels := []string{"a.wav", filepath.Join("sub", "d.flac")}
	if len(jobs) != len(wantRels) {
		t.Fatalf("got %d jobs, want %d: %+v", len(jobs), len(wantRels), jobs)
	}
	for i, want := range wantRels {
		if jobs[i].Rel != want {
			t.Errorf("job %d rel = %q, want %q", i, jobs[i].Rel, want)
		}
	}

	// The same tree still converts fully toward another format.
	jobs, err = scan.Audio(root, "ogg")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected all 4 files for a different target, got %d", len(jobs))
	}
}

func TestAudioEmptyDirectory(t *testing.T) {
	jobs, err := scan.Audio(t.TempDir(), "mp3")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}

func TestAudioRescanIsDeterministic(t *testing.T) {
	root := testsupport.WriteAudioTree(t, "b.wav", "a.wav", "c/d.flac")

	first, err := scan.Audio(root, "mp3")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	second, err := scan.Audio(root, "mp3")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("unexpected counts %d/%d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rescan diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSupported(t *testing.T) {
	for _, ext := range []string{"wav", ".FLAC", "m4a"} {
		if !scan.Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
	if scan.Supported(".txt") {
		t.Error("Supported(.txt) = true")
	}
}
