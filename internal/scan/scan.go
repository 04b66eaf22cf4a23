// Package scan discovers convertible audio files under an input root.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"tunepress/internal/run"
)

// Supported source extensions (lowercase, with leading dot).
var audioExtensions = map[string]struct{}{
	".wav":  {},
	".flac": {},
	".aiff": {},
	".aif":  {},
	".ape":  {},
	".wv":   {},
	".m4a":  {},
	".mp3":  {},
	".ogg":  {},
	".opus": {},
	".wma":  {},
}

// Audio walks inputRoot and returns one job per audio file, sorted by
// relative path for deterministic ordering. Files whose extension already
// matches targetFormat are skipped; re-encoding them in place would only lose
// quality. An empty result is not an error.
func Audio(inputRoot, targetFormat string) ([]run.Job, error) {
	skip := "." + strings.ToLower(strings.TrimPrefix(targetFormat, "."))

	var jobs []run.Job
	err := filepath.WalkDir(inputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := audioExtensions[ext]; !ok {
			return nil
		}
		if ext == skip {
			return nil
		}
		rel, err := filepath.Rel(inputRoot, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, run.Job{Source: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Rel < jobs[j].Rel })
	return jobs, nil
}

// Supported reports whether ext names a recognized source format. The leading
// dot is optional and case is ignored.
func Supported(ext string) bool {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	_, ok := audioExtensions[ext]
	return ok
}
