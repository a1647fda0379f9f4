package harness

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// TickFunc receives one progress indication per interval: the elapsed time
// so far and the total window duration.
type TickFunc func(elapsed, total time.Duration)

// TestWindow holds a case open for a fixed wall-clock duration, emitting
// periodic progress ticks. It is purely an observability aid: it performs no
// health checking and never shortens or extends the window based on process
// state. The only early return is context cancellation.
type TestWindow struct {
	logger HarnessLogger
	// spin animates between ticks when stdout is a terminal; nil otherwise.
	spin *spinner.Spinner
}

// NewTestWindow creates a test window. Spinner output is enabled only when
// stdout is a TTY so captured batch logs stay clean.
func NewTestWindow(logger HarnessLogger) *TestWindow {
	w := &TestWindow{logger: logger}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		w.spin = spinner.New(spinner.CharSets[14], 120*time.Millisecond)
	}
	return w
}

// Hold blocks for exactly duration, emitting one tick every interval plus a
// final partial tick for any remainder. It returns the number of ticks
// emitted. On context cancellation it stops immediately and returns the
// context error.
func (w *TestWindow) Hold(ctx context.Context, duration, interval time.Duration, tick TickFunc) (int, error) {
	if interval <= 0 {
		interval = duration
	}

	if w.spin != nil {
		w.spin.Suffix = fmt.Sprintf(" observation window (%v)", duration)
		w.spin.Start()
		defer w.spin.Stop()
	}

	start := time.Now()
	deadline := start.Add(duration)
	ticks := 0

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		wait := interval
		if remaining < wait {
			wait = remaining
		}

		select {
		case <-ctx.Done():
			return ticks, ctx.Err()
		case <-time.After(wait):
		}

		ticks++
		elapsed := time.Since(start).Round(time.Second)
		if elapsed > duration {
			elapsed = duration
		}
		if w.spin != nil {
			w.spin.Suffix = fmt.Sprintf(" observation window %v/%v", elapsed, duration)
		}
		if tick != nil {
			tick(elapsed, duration)
		}
	}

	return ticks, nil
}
