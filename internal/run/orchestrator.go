package run

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"tunepress/internal/checkpoint"
	"tunepress/internal/logging"
)

// Invoker performs one external conversion for one job.
type Invoker interface {
	Convert(ctx context.Context, job Job, cfg Config) error
}

// Checkpointer persists remaining work when a run is cancelled and clears it
// when a run completes.
type Checkpointer interface {
	Save(cp checkpoint.Checkpoint) error
	Delete() error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress registers a callback fired after every job resolution. The
// callback has no control authority and may be called from worker goroutines.
func WithProgress(fn func(Progress)) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.progress = fn
		}
	}
}

// WithCompleted seeds progress retired by an earlier interrupted run. Those n
// jobs count toward the total and the completed counter, so a resumed run
// reports and checkpoints against the original set rather than the leftover
// slice.
func WithCompleted(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.prior = n
		}
	}
}

// Orchestrator drives a job set through the invoker under a concurrency cap,
// aggregating failures and persisting a checkpoint when cancelled mid-run.
type Orchestrator struct {
	cfg      Config
	invoker  Invoker
	store    Checkpointer
	logger   *slog.Logger
	progress func(Progress)
	prior    int
}

// New constructs an orchestrator for one run.
func New(cfg Config, invoker Invoker, store Checkpointer, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		cfg:      cfg,
		invoker:  invoker,
		store:    store,
		logger:   logger,
		progress: func(Progress) {},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run converts every job under the concurrency cap until the set is exhausted
// or ctx is cancelled. Jobs are independent and unordered. A cancelled run
// with pending jobs writes a checkpoint; any other ending deletes it.
func (o *Orchestrator) Run(ctx context.Context, jobs []Job) (Report, error) {
	st := newState(jobs, o.prior)

	workers := o.cfg.Cores
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) && len(jobs) > 0 {
		workers = len(jobs)
	}

	o.logger.Info("run starting",
		logging.Int("total", st.total),
		logging.Int("workers", workers),
		logging.String("format", o.cfg.Format),
		logging.Int("quality", o.cfg.Quality),
	)

	if len(jobs) > 0 {
		queue := make(chan Job)
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				for job := range queue {
					o.dispatch(ctx, st, job)
				}
			}()
		}

	feed:
		for _, job := range jobs {
			select {
			case queue <- job:
			case <-ctx.Done():
				break feed
			}
		}
		close(queue)
		wg.Wait()
	}

	remaining := st.remaining()
	report := Report{
		Total:     st.total,
		Done:      st.completedCount(),
		Remaining: len(remaining),
		Failures:  st.failureList(),
	}

	if ctx.Err() != nil && len(remaining) > 0 {
		report.Outcome = Cancelled
		if err := o.store.Save(o.checkpointFor(st, remaining)); err != nil {
			return report, err
		}
		o.logger.Info("run cancelled",
			logging.Int("completed", report.Done),
			logging.Int("remaining", report.Remaining),
		)
		return report, nil
	}

	report.Outcome = Completed
	if err := o.store.Delete(); err != nil {
		return report, err
	}
	o.logger.Info("run complete",
		logging.Int("completed", report.Done),
		logging.Int("failed", len(report.Failures)),
	)
	return report, nil
}

// dispatch resolves one job. Cancellation leaves the job pending for a later
// resume; every other outcome retires it.
func (o *Orchestrator) dispatch(ctx context.Context, st *state, job Job) {
	if ctx.Err() != nil {
		o.progress(Progress{Completed: st.completedCount(), Total: st.total, File: job.Rel})
		return
	}

	err := o.invoker.Convert(ctx, job, o.cfg)
	switch {
	case err == nil:
		completed := st.markDone(job)
		o.logger.Debug("converted", logging.String("file", job.Rel))
		o.progress(Progress{Completed: completed, Total: st.total, File: job.Rel})
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		o.progress(Progress{Completed: st.completedCount(), Total: st.total, File: job.Rel})
	default:
		completed := st.markFailed(job, err.Error())
		o.logger.Warn("conversion failed",
			logging.String("file", job.Rel),
			logging.Error(err),
		)
		o.progress(Progress{Completed: completed, Total: st.total, File: job.Rel, Err: err.Error()})
	}
}

func (o *Orchestrator) checkpointFor(st *state, remaining []Job) checkpoint.Checkpoint {
	paths := make([]string, len(remaining))
	for i, job := range remaining {
		paths[i] = job.Source
	}
	return checkpoint.Checkpoint{
		InputDir:       o.cfg.InputDir,
		OutputDir:      o.cfg.OutputDir,
		TargetFormat:   o.cfg.Format,
		Quality:        o.cfg.Quality,
		Cores:          o.cfg.Cores,
		TotalFiles:     st.completedCount() + len(remaining),
		RemainingFiles: paths,
	}
}

// FromCheckpoint rebuilds a run configuration and its remaining job list from
// a checkpoint, trusting the original scan verbatim. The third return value is
// the number of jobs the interrupted run already retired; pass it to
// WithCompleted so the resumed run keeps the original total.
func FromCheckpoint(cp *checkpoint.Checkpoint) (Config, []Job, int) {
	cfg := Config{
		InputDir:  cp.InputDir,
		OutputDir: cp.OutputDir,
		Format:    cp.TargetFormat,
		Quality:   cp.Quality,
		Cores:     cp.Cores,
	}
	jobs := make([]Job, 0, len(cp.RemainingFiles))
	for _, source := range cp.RemainingFiles {
		rel, err := filepath.Rel(cp.InputDir, source)
		if err != nil || rel == "" {
			rel = filepath.Base(source)
		}
		jobs = append(jobs, Job{Source: source, Rel: rel})
	}
	prior := cp.TotalFiles - len(jobs)
	if prior < 0 {
		prior = 0
	}
	return cfg, jobs, prior
}
