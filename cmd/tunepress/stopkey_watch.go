package main

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"tunepress/internal/stopkey"
)

// watchStopKey arms the keypress watcher when the reader is an interactive
// terminal. The terminal is switched to raw mode so single keystrokes arrive
// without a newline; the returned function restores the previous mode and is
// safe to call more than once.
func watchStopKey(ctx context.Context, in io.Reader, cancel func()) func() {
	file, ok := in.(*os.File)
	if !ok || !isatty.IsTerminal(file.Fd()) {
		go stopkey.Watch(ctx, in, cancel)
		return func() {}
	}

	fd := int(file.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		go stopkey.Watch(ctx, in, cancel)
		return func() {}
	}

	go stopkey.Watch(ctx, file, cancel)
	restored := false
	return func() {
		if restored {
			return
		}
		restored = true
		_ = term.Restore(fd, oldState)
	}
}
