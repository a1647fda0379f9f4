package harness

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DelayProbe is the default readiness gate: a fixed sleep standing in for
// real readiness signaling. It accepts the risk that a slow-starting process
// is not actually ready when the delay elapses.
type DelayProbe struct {
	Delay time.Duration
}

// WaitReady blocks for the configured delay or until the context is cancelled.
func (p DelayProbe) WaitReady(ctx context.Context, _ *SupervisedProcess) error {
	if p.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(p.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogPatternProbe considers a process ready once its sink file contains the
// given pattern. It watches the file for writes rather than polling. The
// probe is best-effort: on timeout or watch failure it proceeds without
// error, falling back to the fixed-delay behavior the probe replaces.
type LogPatternProbe struct {
	// Pattern is the substring that signals readiness, e.g. a cell
	// activation line in the gNB log.
	Pattern string
	// Timeout bounds the wait; zero means 30 seconds.
	Timeout time.Duration

	logger HarnessLogger
}

// NewLogPatternProbe creates a log-pattern readiness probe.
func NewLogPatternProbe(pattern string, timeout time.Duration, logger HarnessLogger) *LogPatternProbe {
	return &LogPatternProbe{
		Pattern: pattern,
		Timeout: timeout,
		logger:  logger,
	}
}

func (p *LogPatternProbe) sinkContainsPattern(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), p.Pattern)
}

// WaitReady blocks until the pattern appears in the sink file, the timeout
// elapses, or the context is cancelled. Only context cancellation is an error.
func (p *LogPatternProbe) WaitReady(ctx context.Context, proc *SupervisedProcess) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// The pattern may already be there from the gap between launch and probe.
	if p.sinkContainsPattern(proc.SinkPath) {
		p.logger.Debug("✅ %s ready: pattern %q already present\n", proc.Role.DisplayName(), p.Pattern)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Debug("⚠️  Could not create sink watcher for %s, proceeding: %v\n", proc.Role.DisplayName(), err)
		return nil
	}
	defer watcher.Close()

	if err := watcher.Add(proc.SinkPath); err != nil {
		p.logger.Debug("⚠️  Could not watch sink file %s, proceeding: %v\n", proc.SinkPath, err)
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			p.logger.Debug("⏰ Pattern %q not seen in %s within %v, proceeding\n", p.Pattern, proc.Role.DisplayName(), timeout)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && p.sinkContainsPattern(proc.SinkPath) {
				p.logger.Debug("✅ %s ready: pattern %q observed\n", proc.Role.DisplayName(), p.Pattern)
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Debug("⚠️  Sink watcher error for %s, proceeding: %v\n", proc.Role.DisplayName(), err)
			return nil
		}
	}
}
