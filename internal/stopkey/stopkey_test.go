package stopkey

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchFiresOnStopKey(t *testing.T) {
	for _, input := range []string{"q", "Q", "\x1b", "xxq"} {
		var fired atomic.Int64
		done := make(chan struct{})
		go func() {
			Watch(context.Background(), strings.NewReader(input), func() { fired.Add(1) })
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("watch did not return for input %q", input)
		}
		if fired.Load() != 1 {
			t.Fatalf("input %q fired %d times", input, fired.Load())
		}
	}
}

func TestWatchIgnoresOtherInputUntilEOF(t *testing.T) {
	var fired atomic.Int64
	Watch(context.Background(), strings.NewReader("abc\n"), func() { fired.Add(1) })
	if fired.Load() != 0 {
		t.Fatalf("unexpected cancellation on non-stop input")
	}
}

func TestWatchStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan struct{})
	go func() {
		Watch(ctx, blockingThenCheck{pr, ctx}, func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not observe context cancellation")
	}
}

// blockingThenCheck returns immediately with no data when the context is
// already done, mimicking a reader that unblocks on close.
type blockingThenCheck struct {
	r   io.Reader
	ctx context.Context
}

func (b blockingThenCheck) Read(p []byte) (int, error) {
	if b.ctx.Err() != nil {
		return 0, io.EOF
	}
	return b.r.Read(p)
}
