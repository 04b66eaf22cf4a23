package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"tunepress/internal/run"
	"tunepress/internal/services"
)

// The transcoder is pinned to one internal thread so the orchestrator's
// worker cap is the sole throttle; letting every process spawn its own
// thread pool oversubscribes the machine badly at high job counts.
const transcoderThreads = 1

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (diagnostic string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client invokes the external transcoder, one process per file.
type Client struct {
	binary string
	exec   Executor
}

// New constructs a transcoder client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcoder", "new", "binary required", nil)
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Convert transcodes one job into the output tree. The destination mirrors the
// job's relative directory under cfg.OutputDir with the target extension.
// A context cancellation resolves as context.Canceled, never as a tool error.
func (c *Client) Convert(ctx context.Context, job run.Job, cfg run.Config) error {
	dest := OutputPath(cfg.OutputDir, job.Rel, cfg.Format)
	// Concurrent workers may create the same directory; MkdirAll treats
	// an existing directory as success.
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "transcoder", "prepare output", job.Rel, err)
	}

	diagnostic, err := c.exec.Run(ctx, c.binary, buildArgs(job.Source, dest, cfg.Quality))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("convert %s: %w", job.Rel, ctx.Err())
	}

	message := strings.TrimSpace(diagnostic)
	if message == "" {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			message = fmt.Sprintf("exited with code %d", exitErr.ExitCode())
		} else {
			message = err.Error()
		}
	}
	return services.Wrap(services.ErrExternalTool, "transcoder", "convert", message, nil)
}

// OutputPath computes the destination for a relative source path: the same
// subdirectory under outputRoot with the extension replaced by format.
func OutputPath(outputRoot, rel, format string) string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	return filepath.Join(outputRoot, filepath.Dir(rel), base+"."+format)
}

func buildArgs(source, dest string, quality int) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-y",
		"-i", source,
		"-vn",
		"-q:a", strconv.Itoa(quality),
		"-threads", strconv.Itoa(transcoderThreads),
		dest,
	}
}

type commandExecutor struct{}

// Run starts the process and drains stderr concurrently with the wait so a
// full pipe buffer can never deadlock the child.
func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start command: %w", err)
	}

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(&buf, stderr)
	}()

	waitErr := cmd.Wait()
	<-done
	return buf.String(), waitErr
}
