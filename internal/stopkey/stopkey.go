// Package stopkey watches for an out-of-band stop keypress and triggers
// run-wide cancellation exactly once. It knows nothing about job state.
package stopkey

import (
	"context"
	"io"
	"sync"
)

// Keys that request cancellation: 'q', 'Q', and Escape.
func isStopKey(b byte) bool {
	return b == 'q' || b == 'Q' || b == 0x1b
}

// Watch reads single bytes from r until a stop key arrives, then calls cancel
// once and returns. It also returns when r reaches EOF or ctx is done. Run it
// in its own goroutine; it owns no job data and produces no result.
func Watch(ctx context.Context, r io.Reader, cancel func()) {
	var once sync.Once
	fire := func() { once.Do(cancel) }

	buf := make([]byte, 1)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := r.Read(buf)
		if n > 0 && isStopKey(buf[0]) {
			fire()
			return
		}
		if err != nil {
			return
		}
	}
}
