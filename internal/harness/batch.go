package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BatchDriver enumerates the case-defining input files of a directory and
// drives one CaseRunner per file. Cases run strictly one after another; a
// fixed pause separates them so successive teardown/startup cycles do not
// contend for the radio simulator's resources.
type BatchDriver struct {
	runner    *CaseRunner
	reporter  BatchReporter
	logger    HarnessLogger
	casePause time.Duration

	binaries  []string
	baselines []string
}

// NewBatchDriver assembles a batch driver. binaries and baselines are the
// preflight inputs.
func NewBatchDriver(runner *CaseRunner, reporter BatchReporter, logger HarnessLogger, casePause time.Duration, binaries, baselines []string) *BatchDriver {
	return &BatchDriver{
		runner:    runner,
		reporter:  reporter,
		logger:    logger,
		casePause: casePause,
		binaries:  binaries,
		baselines: baselines,
	}
}

// listInputFiles returns the .conf files of dir in lexicographic order.
func listInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".conf") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	// os.ReadDir sorts by name already; keep the guarantee explicit.
	sort.Strings(files)
	return files, nil
}

// Run executes the whole batch to completion. It terminates early only on
// interruption or a fatal condition (preflight failure, empty input
// directory, launch failure); a single case's internal degradation never
// stops the batch.
func (b *BatchDriver) Run(ctx context.Context, confDir string) (*BatchResult, error) {
	if err := Preflight(b.binaries, b.baselines); err != nil {
		return nil, err
	}

	files, err := listInputFiles(confDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, confDir)
	}

	result := &BatchResult{
		StartTime:  time.Now(),
		TotalFiles: len(files),
	}
	b.reporter.ReportBatchStart(confDir, len(files))

	for i, file := range files {
		if ctx.Err() != nil {
			return result, ErrInterrupted
		}

		caseResult, err := b.runner.RunCase(ctx, file)
		if err != nil {
			// Interruption and launch failures abort the batch; the case
			// runner has already torn its processes down.
			result.Duration = time.Since(result.StartTime)
			return result, err
		}

		result.CaseResults = append(result.CaseResults, *caseResult)
		switch caseResult.Outcome {
		case OutcomeDone:
			result.CompletedCases++
		case OutcomeSkipped:
			result.SkippedFiles++
		}

		if i < len(files)-1 && b.casePause > 0 {
			b.logger.Debug("⏸️  Pausing %v before next case\n", b.casePause)
			select {
			case <-ctx.Done():
				result.Duration = time.Since(result.StartTime)
				return result, ErrInterrupted
			case <-time.After(b.casePause):
			}
		}
	}

	result.Duration = time.Since(result.StartTime)
	b.reporter.ReportBatchResult(*result)
	return result, nil
}
