package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tunepress/internal/checkpoint"
	"tunepress/internal/config"
	"tunepress/internal/quality"
	"tunepress/internal/run"
	"tunepress/internal/scan"
	"tunepress/internal/services/transcoder"
)

// Target formats the convert command accepts.
var targetFormats = map[string]struct{}{
	"mp3":  {},
	"ogg":  {},
	"opus": {},
	"m4a":  {},
}

type convertOptions struct {
	input   string
	output  string
	format  string
	percent int
	jobs    int
	yes     bool
}

func newConvertCommand(cmdCtx *commandContext) *cobra.Command {
	opts := convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an audio tree, resuming an interrupted run if one exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Directory holding the source audio files")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory receiving the converted files")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "mp3", "Target format (mp3, ogg, opus, m4a)")
	cmd.Flags().IntVarP(&opts.percent, "quality", "q", 80, "Quality score between 30 and 100, higher is better")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Parallel conversions (up to the CPU count)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip confirmation prompts (resume when a checkpoint exists)")

	return cmd
}

func runConvert(cmd *cobra.Command, cfg *config.Config, opts convertOptions) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock := checkpoint.NewRunLock(cfg.LockPath())
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	runID := uuid.NewString()
	logger, logPath, err := newRunLogger(cfg, runID)
	if err != nil {
		return err
	}

	store := checkpoint.NewStore(cfg.CheckpointPath())
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()
	prompts := bufio.NewReader(in)

	runCfg, jobs, prior, err := resolveRun(out, prompts, store, opts)
	if err != nil {
		return err
	}
	if jobs == nil {
		// Declined confirmation or nothing to do.
		return nil
	}

	client, err := transcoder.New(cfg.Transcoder)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancelRun := context.WithCancel(sigCtx)
	defer cancelRun()

	console := newRunConsole(out, prior+len(jobs))
	defer console.Close()

	restore := watchStopKey(runCtx, in, cancelRun)
	defer restore()
	console.Hint("Press q to stop; progress is saved for resume.")

	invoker := newRecordingInvoker(client, cfg, runID, logger)
	defer invoker.Close()

	orch := run.New(runCfg, invoker, store, logger,
		run.WithProgress(console.Observe), run.WithCompleted(prior))
	report, err := orch.Run(runCtx, jobs)
	if err != nil {
		return err
	}

	console.Close()
	restore()
	printReport(out, report, logPath)
	return nil
}

// resolveRun produces the run configuration and job set, either by adopting a
// detected checkpoint or by scanning fresh input. The int is the job count an
// interrupted run already finished. A nil job slice with a nil error means the
// user declined or there is nothing to convert.
func resolveRun(out io.Writer, in *bufio.Reader, store *checkpoint.Store, opts convertOptions) (run.Config, []run.Job, int, error) {
	cp, err := store.Load()
	if err != nil {
		return run.Config{}, nil, 0, err
	}
	if cp != nil {
		fmt.Fprintf(out, "Found an interrupted run: %d of %d files remaining (%s -> %s).\n",
			len(cp.RemainingFiles), cp.TotalFiles, cp.InputDir, cp.OutputDir)
		if opts.yes || promptYesNo(out, in, "Resume it?") {
			cfg, jobs, prior := run.FromCheckpoint(cp)
			return cfg, jobs, prior, nil
		}
		// A declined checkpoint is deleted so the next start scans fresh
		// instead of asking again.
		if err := store.Delete(); err != nil {
			return run.Config{}, nil, 0, err
		}
	}

	runCfg, err := configFromOptions(opts)
	if err != nil {
		return run.Config{}, nil, 0, err
	}

	jobs, err := scan.Audio(runCfg.InputDir, runCfg.Format)
	if err != nil {
		return run.Config{}, nil, 0, fmt.Errorf("scan input: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No audio files found; nothing to do.")
		return run.Config{}, nil, 0, nil
	}

	fmt.Fprintf(out, "%d files -> %s (quality %d, %d workers)\n", len(jobs), runCfg.Format, runCfg.Quality, runCfg.Cores)
	if !opts.yes && !promptYesNo(out, in, "Start converting?") {
		return run.Config{}, nil, 0, nil
	}
	return runCfg, jobs, 0, nil
}

func configFromOptions(opts convertOptions) (run.Config, error) {
	if strings.TrimSpace(opts.input) == "" {
		return run.Config{}, errors.New("--input is required when no checkpoint is being resumed")
	}
	inputDir, err := config.ExpandPath(opts.input)
	if err != nil {
		return run.Config{}, err
	}
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return run.Config{}, fmt.Errorf("input directory does not exist: %s", inputDir)
	}

	format := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(opts.format), "."))
	if _, ok := targetFormats[format]; !ok {
		return run.Config{}, fmt.Errorf("unsupported target format %q", opts.format)
	}

	outputDir := strings.TrimSpace(opts.output)
	if outputDir == "" {
		outputDir = inputDir + "-" + format
	}
	if outputDir, err = config.ExpandPath(outputDir); err != nil {
		return run.Config{}, err
	}

	if !quality.ValidPercent(opts.percent) {
		return run.Config{}, fmt.Errorf("quality must be between %d and %d", quality.MinPercent, quality.MaxPercent)
	}

	if opts.jobs < 1 || opts.jobs > runtime.NumCPU() {
		return run.Config{}, fmt.Errorf("jobs must be between 1 and %d", runtime.NumCPU())
	}

	return run.Config{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Format:    format,
		Quality:   quality.Map(opts.percent),
		Cores:     opts.jobs,
	}, nil
}

func promptYesNo(out io.Writer, in *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printReport(out io.Writer, report run.Report, logPath string) {
	if report.Outcome == run.Cancelled {
		fmt.Fprintln(out, "Stopped, progress saved.")
		return
	}

	if len(report.Failures) > 0 {
		rows := make([][]string, 0, len(report.Failures))
		for _, failure := range report.Failures {
			rows = append(rows, []string{filepath.Base(failure.Path), failure.Message})
		}
		fmt.Fprintln(out, renderTable([]string{"File", "Error"}, rows))
		fmt.Fprintf(out, "%d of %d files failed; details in %s\n", len(report.Failures), report.Total, logPath)
	}
	fmt.Fprintf(out, "Done: %d files converted.\n", report.Total-len(report.Failures))
}
