package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tunepress/internal/config"
	"tunepress/internal/history"
	"tunepress/internal/logging"
	"tunepress/internal/run"
	"tunepress/internal/services/transcoder"
)

// recordingInvoker wraps the transcoder client to time every conversion and
// write the outcome to the history store. History is best effort: a store
// failure is logged and never turns a successful conversion into a failed one.
type recordingInvoker struct {
	inner  run.Invoker
	store  *history.Store
	runID  string
	logger *slog.Logger
}

func newRecordingInvoker(inner run.Invoker, cfg *config.Config, runID string, logger *slog.Logger) *recordingInvoker {
	invoker := &recordingInvoker{
		inner:  inner,
		runID:  runID,
		logger: logger,
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logger.Warn("history store unavailable", logging.Error(err))
		return invoker
	}
	invoker.store = store
	return invoker
}

func (r *recordingInvoker) Convert(ctx context.Context, job run.Job, cfg run.Config) error {
	started := time.Now()
	err := r.inner.Convert(ctx, job, cfg)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Cancelled work stays pending and is not history.
		return err
	}

	entry := history.Entry{
		RunID:      r.runID,
		Source:     job.Source,
		Output:     transcoder.OutputPath(cfg.OutputDir, job.Rel, cfg.Format),
		Status:     history.StatusDone,
		Duration:   time.Since(started),
		FinishedAt: time.Now().UTC(),
	}
	if err != nil {
		entry.Status = history.StatusFailed
		entry.Message = err.Error()
		r.logger.Error("conversion failed", logging.String("source", job.Source), logging.Error(err))
	} else {
		r.logger.Info("converted", logging.String("source", job.Source), logging.Duration("duration", entry.Duration))
	}

	if r.store != nil {
		if recErr := r.store.Record(context.WithoutCancel(ctx), entry); recErr != nil {
			r.logger.Warn("history record failed", logging.Error(recErr))
		}
	}
	return err
}

func (r *recordingInvoker) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}
