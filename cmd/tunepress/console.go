package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"tunepress/internal/run"
)

// runConsole renders conversion progress. On an interactive terminal it drives
// a progress bar; otherwise it falls back to one line per finished file so
// redirected output stays readable.
type runConsole struct {
	mu     sync.Mutex
	out    io.Writer
	bar    *progressbar.ProgressBar
	closed bool
}

func newRunConsole(out io.Writer, total int) *runConsole {
	console := &runConsole{out: out}
	if file, ok := out.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		console.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return console
}

func (c *runConsole) Hint(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bar != nil {
		fmt.Fprintln(c.out, message)
	}
}

// Observe is wired into the orchestrator as its progress callback.
func (c *runConsole) Observe(p run.Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.bar != nil {
		_ = c.bar.Set(p.Completed)
		return
	}
	name := filepath.Base(p.File)
	if p.Err != "" {
		fmt.Fprintf(c.out, "[%d/%d] %s: %s\n", p.Completed, p.Total, name, p.Err)
		return
	}
	fmt.Fprintf(c.out, "[%d/%d] %s\n", p.Completed, p.Total, name)
}

// Close clears the bar so the final report starts on a clean line. Safe to
// call more than once.
func (c *runConsole) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.bar != nil {
		_ = c.bar.Clear()
	}
}
