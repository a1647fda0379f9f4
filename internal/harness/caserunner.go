package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CaseRunner drives a single case through its phases:
// routing, pre-cleanup, launch, window, post-cleanup, collection, manifest.
// The cleanup manager is invoked on every exit path, so a failed or
// interrupted case never leaves role processes behind.
type CaseRunner struct {
	router     *ConfRouter
	supervisor ProcessSupervisor
	cleaner    CleanupManager
	window     *TestWindow
	collector  LogCollector
	reporter   BatchReporter
	logger     HarnessLogger

	outputRoot       string
	windowDuration   time.Duration
	progressInterval time.Duration
}

// NewCaseRunner assembles a case runner from its collaborators.
func NewCaseRunner(
	router *ConfRouter,
	supervisor ProcessSupervisor,
	cleaner CleanupManager,
	window *TestWindow,
	collector LogCollector,
	reporter BatchReporter,
	logger HarnessLogger,
	outputRoot string,
	windowDuration, progressInterval time.Duration,
) *CaseRunner {
	return &CaseRunner{
		router:           router,
		supervisor:       supervisor,
		cleaner:          cleaner,
		window:           window,
		collector:        collector,
		reporter:         reporter,
		logger:           logger,
		outputRoot:       outputRoot,
		windowDuration:   windowDuration,
		progressInterval: progressInterval,
	}
}

// RunCase executes one case to DONE or SKIPPED. The returned error is
// non-nil only for conditions that abort the batch: a launch failure or an
// interruption. Collection and manifest failures degrade the case locally
// and are recorded in the result instead.
func (r *CaseRunner) RunCase(ctx context.Context, confPath string) (*CaseResult, error) {
	caseStart := time.Now()
	fileName := filepath.Base(confPath)

	r.reporter.ReportPhase(fileName, PhaseRouting)
	routed, matched, err := r.router.Route(confPath)
	if err != nil {
		return nil, err
	}
	if !matched {
		r.reporter.ReportCaseSkipped(fileName)
		// Same extension-stripped name as completed cases, so batch summaries
		// line up.
		return &CaseResult{
			CaseName:  strings.TrimSuffix(fileName, filepath.Ext(fileName)),
			Outcome:   OutcomeSkipped,
			StartTime: caseStart,
			Duration:  time.Since(caseStart),
		}, nil
	}

	r.reporter.ReportCaseStart(routed.CaseName)

	tc := &TestCase{
		Name:   routed.CaseName,
		RunID:  uuid.NewString(),
		Routed: routed,
		OutputDir: filepath.Join(r.outputRoot,
			fmt.Sprintf("%s_%s", caseStart.Format("20060102-150405"), routed.CaseName)),
	}
	if err := os.MkdirAll(tc.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create case output directory: %w", err)
	}

	// Guaranteed release: whatever path leaves this function, the triad dies.
	defer r.cleaner.Terminate()

	r.reporter.ReportPhase(tc.Name, PhaseCleaningPre)
	if err := r.cleaner.Terminate(); err != nil {
		return nil, fmt.Errorf("pre-launch cleanup failed: %w", err)
	}

	r.reporter.ReportPhase(tc.Name, PhaseLaunching)
	tc.StartTime = time.Now()
	if _, err := r.supervisor.LaunchTriad(ctx, tc); err != nil {
		if ctx.Err() != nil {
			return nil, ErrInterrupted
		}
		return nil, fmt.Errorf("launch failed for case %s: %w", tc.Name, err)
	}

	r.reporter.ReportPhase(tc.Name, PhaseWindowing)
	_, err = r.window.Hold(ctx, r.windowDuration, r.progressInterval, func(elapsed, total time.Duration) {
		r.reporter.ReportWindowTick(tc.Name, elapsed, total)
	})
	if err != nil {
		// Deferred cleanup still runs; the manifest may be missing, which is
		// the documented interruption behavior.
		return nil, ErrInterrupted
	}

	// Non-blocking liveness snapshot for the manifest, taken before teardown.
	// Purely metadata; the window already ran its full duration.
	aliveRoles := r.cleaner.AliveRoles()

	r.reporter.ReportPhase(tc.Name, PhaseCleaningPost)
	if err := r.cleaner.Terminate(); err != nil {
		return nil, fmt.Errorf("post-window cleanup failed: %w", err)
	}

	result := &CaseResult{
		CaseName:  tc.Name,
		Outcome:   OutcomeDone,
		OutputDir: tc.OutputDir,
		StartTime: caseStart,
	}

	r.reporter.ReportPhase(tc.Name, PhaseCollecting)
	if _, err := r.collector.Collect(tc); err != nil {
		r.logger.Error("⚠️  Log collection failed for case %s: %v\n", tc.Name, err)
		result.Degraded = fmt.Sprintf("collection failed: %v", err)
	}

	manifest := &RunManifest{
		CaseName:        tc.Name,
		RunID:           tc.RunID,
		ModifiedRole:    routed.ModifiedRole,
		Configs:         configPaths(routed),
		StartTime:       tc.StartTime,
		WindowDuration:  r.windowDuration.String(),
		RolesAliveAtEnd: aliveRoles,
	}
	if err := r.collector.WriteManifest(tc, manifest); err != nil {
		r.logger.Error("⚠️  Manifest writing failed for case %s: %v\n", tc.Name, err)
		result.Degraded = fmt.Sprintf("manifest failed: %v", err)
	} else {
		r.reporter.ReportPhase(tc.Name, PhaseManifestWritten)
	}

	result.Duration = time.Since(caseStart)
	r.reporter.ReportCaseResult(*result)
	return result, nil
}

func configPaths(routed *RoutedCase) map[Role]string {
	paths := make(map[Role]string, len(routed.Configs))
	for role, conf := range routed.Configs {
		paths[role] = conf.Path
	}
	return paths
}
