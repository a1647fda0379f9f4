package harness

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// TailSummaryFileName is the flat text concatenation of the role tails.
	TailSummaryFileName = "tail_summary.txt"
	// LogSummaryFileName is the structured JSON summary for machine consumption.
	LogSummaryFileName = "log_summary.json"
	// ManifestFileName is the per-case run manifest.
	ManifestFileName = "manifest.json"

	// maxLineSize bounds a single captured line; the soft modems can emit
	// very long hex dumps.
	maxLineSize = 1024 * 1024
)

// logCollector implements LogCollector.
type logCollector struct {
	tailLines int
	logger    HarnessLogger
}

// NewLogCollector creates a collector that keeps the last tailLines lines
// per role.
func NewLogCollector(tailLines int, logger HarnessLogger) LogCollector {
	if tailLines <= 0 {
		tailLines = 100
	}
	return &logCollector{
		tailLines: tailLines,
		logger:    logger,
	}
}

// tailFile returns the last n lines of the file in original order. A file
// with fewer than n lines yields all of them; a missing file yields an empty
// slice and no error; an absent sink only means the process never wrote.
// The result is always non-nil so it serializes as a JSON array, never null.
func tailFile(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open sink file %s: %w", path, err)
	}
	defer f.Close()

	// Ring over the last n lines; the sinks can be large, so never hold the
	// whole file.
	ring := make([]string, n)
	total := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		ring[total%n] = scanner.Text()
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sink file %s: %w", path, err)
	}

	if total <= n {
		lines := make([]string, total)
		copy(lines, ring[:total])
		return lines, nil
	}
	lines := make([]string, 0, n)
	for i := total - n; i < total; i++ {
		lines = append(lines, ring[i%n])
	}
	return lines, nil
}

// Collect extracts the bounded per-role tails and writes both summary
// artifacts into the case directory. The three sinks are read concurrently;
// collection is strictly read-only with respect to the raw capture files.
func (c *logCollector) Collect(tc *TestCase) (*LogSummary, error) {
	summary := &LogSummary{
		CaseName: tc.Name,
		Logs:     make(map[string][]string, len(LaunchOrder)),
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, role := range LaunchOrder {
		role := role
		g.Go(func() error {
			lines, err := tailFile(tc.SinkPath(role), c.tailLines)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.Logs[role.SinkFileName()] = lines
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := c.writeFlatSummary(tc, summary); err != nil {
		return nil, err
	}
	if err := writeJSONFile(filepath.Join(tc.OutputDir, LogSummaryFileName), summary); err != nil {
		return nil, err
	}

	c.logger.Debug("📋 Collected tails for case %s (%d lines max per role)\n", tc.Name, c.tailLines)
	return summary, nil
}

// writeFlatSummary writes the labeled text concatenation of the three tails.
func (c *logCollector) writeFlatSummary(tc *TestCase, summary *LogSummary) error {
	var b strings.Builder
	for _, role := range LaunchOrder {
		fmt.Fprintf(&b, "=== %s (%s) ===\n", role.DisplayName(), role.SinkFileName())
		for _, line := range summary.Logs[role.SinkFileName()] {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	path := filepath.Join(tc.OutputDir, TailSummaryFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write tail summary: %w", err)
	}
	return nil
}

// WriteManifest serializes the run manifest as the final artifact of a case.
func (c *logCollector) WriteManifest(tc *TestCase, manifest *RunManifest) error {
	if err := writeJSONFile(filepath.Join(tc.OutputDir, ManifestFileName), manifest); err != nil {
		return err
	}
	c.logger.Debug("📄 Manifest written for case %s\n", tc.Name)
	return nil
}

// writeJSONFile marshals v with indentation and writes it to path.
func writeJSONFile(path string, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
