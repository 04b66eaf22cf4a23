package main

import (
	"log/slog"
	"path/filepath"
	"time"

	"tunepress/internal/config"
	"tunepress/internal/logging"
)

// newRunLogger opens a per-run log file under the configured log directory,
// tagging every line with the run id so log lines and history rows correlate.
// Console output stays reserved for the progress display, so the logger
// writes to the file only.
func newRunLogger(cfg *config.Config, runID string) (*slog.Logger, string, error) {
	name := "run-" + time.Now().UTC().Format("20060102-150405") + ".log"
	logPath := filepath.Join(cfg.Paths.LogDir, name)
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		return nil, "", err
	}
	return logger.With(logging.String("run_id", runID)), logPath, nil
}
