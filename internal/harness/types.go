package harness

import (
	"context"
	"os/exec"
	"path/filepath"
	"time"
)

// Role identifies one of the three fixed participants in a test case.
type Role string

const (
	// RoleCU is the control-plane node of the gNB.
	RoleCU Role = "cu"
	// RoleDU is the distributed unit of the gNB.
	RoleDU Role = "du"
	// RoleUE is the client (user equipment).
	RoleUE Role = "ue"
)

// LaunchOrder is the fixed order in which the triad is started. The DU
// depends on a running CU and the UE depends on a running DU, so the order
// never changes.
var LaunchOrder = []Role{RoleCU, RoleDU, RoleUE}

// DisplayName returns the upper-case role name used in reports and summaries.
func (r Role) DisplayName() string {
	switch r {
	case RoleCU:
		return "CU"
	case RoleDU:
		return "DU"
	case RoleUE:
		return "UE"
	default:
		return string(r)
	}
}

// SinkFileName returns the name of the raw capture file for this role
// inside a case output directory.
func (r Role) SinkFileName() string {
	return string(r) + ".stdout.log"
}

// RoleConfig binds a role to the configuration file it runs with for one
// case. Instances are derived fresh per case and never mutated.
type RoleConfig struct {
	// Role the configuration applies to.
	Role Role
	// Path is the absolute path of the configuration file.
	Path string
}

// RoutedCase is the result of routing one input configuration file: the role
// the file modifies and the full set of resolved per-role configurations
// (baselines substituted for the two roles not under test).
type RoutedCase struct {
	// CaseName is derived from the input file's base name.
	CaseName string
	// ModifiedRole is the role the input file was routed to.
	ModifiedRole Role
	// Configs holds exactly one RoleConfig per role, all paths absolute.
	Configs map[Role]RoleConfig
}

// TestCase owns everything produced during one case: the routed
// configurations, the output directory, and the processes launched into it.
type TestCase struct {
	// Name is the case name (input file base name without extension).
	Name string
	// RunID is a unique identifier for this execution of the case.
	RunID string
	// OutputDir is the freshly created per-case artifact directory.
	OutputDir string
	// StartTime is when the case entered the launch phase.
	StartTime time.Time
	// Routed carries the per-role configurations for this case.
	Routed *RoutedCase
}

// SinkPath returns the raw capture file path for the given role.
func (tc *TestCase) SinkPath(role Role) string {
	return filepath.Join(tc.OutputDir, role.SinkFileName())
}

// SupervisedProcess is the handle for one launched role executable. It is
// owned exclusively by the TestCase that spawned it and becomes invalid once
// terminated.
type SupervisedProcess struct {
	// Role the process runs.
	Role Role
	// Cmd is the underlying command; Cmd.Process is valid after launch.
	Cmd *exec.Cmd
	// SinkPath is where the combined stdout/stderr stream is captured.
	SinkPath string
	// StartTime is when the process was started.
	StartTime time.Time

	terminated bool
}

// Pid returns the OS process ID of the launched process.
func (p *SupervisedProcess) Pid() int {
	return p.Cmd.Process.Pid
}

// CaseOutcome is the terminal state a case reaches.
type CaseOutcome string

const (
	// OutcomeDone indicates the case ran through manifest writing.
	OutcomeDone CaseOutcome = "DONE"
	// OutcomeSkipped indicates the input file matched no role indicator.
	OutcomeSkipped CaseOutcome = "SKIPPED"
)

// CasePhase names a state of the per-case state machine, in execution order.
type CasePhase string

const (
	PhaseRouting         CasePhase = "routing"
	PhaseCleaningPre     CasePhase = "cleaning-pre"
	PhaseLaunching       CasePhase = "launching"
	PhaseWindowing       CasePhase = "windowing"
	PhaseCleaningPost    CasePhase = "cleaning-post"
	PhaseCollecting      CasePhase = "collecting"
	PhaseManifestWritten CasePhase = "manifest-written"
)

// RunManifest is the per-case record of which configurations and timing
// parameters were used. It is written exactly once, after cleanup, as the
// final step of a case.
type RunManifest struct {
	// CaseName is the case this manifest belongs to.
	CaseName string `json:"case_name"`
	// RunID is the unique identifier of this case execution.
	RunID string `json:"run_id"`
	// ModifiedRole is the role the input configuration file was routed to.
	ModifiedRole Role `json:"modified_role"`
	// Configs maps each role to its resolved absolute configuration path.
	Configs map[Role]string `json:"configs"`
	// StartTime is when the case entered the launch phase.
	StartTime time.Time `json:"start_time"`
	// WindowDuration is the configured observation window, e.g. "30s".
	WindowDuration string `json:"window_duration"`
	// RolesAliveAtEnd lists the roles still running when the window closed.
	// Metadata only; an early exit never shortens the window.
	RolesAliveAtEnd []Role `json:"roles_alive_at_end"`
}

// LogSummary is the structured tail summary: per role capture file, the
// last N output lines in their original order. The logs object is keyed by
// sink file name (cu.stdout.log and so on), which is what the downstream
// classification tooling indexes. A role whose sink is missing or empty is
// present with an empty sequence, never absent and never null. Derived
// read-only from the raw capture files and never merged across cases.
type LogSummary struct {
	// CaseName is the case the summary belongs to.
	CaseName string `json:"case_name"`
	// Logs maps each role's sink file name to the ordered tail of its output.
	Logs map[string][]string `json:"logs"`
}

// CaseResult records the terminal state and timing of one case.
type CaseResult struct {
	// CaseName is the case this result belongs to.
	CaseName string `json:"case_name"`
	// Outcome is the terminal state reached.
	Outcome CaseOutcome `json:"outcome"`
	// OutputDir is the case artifact directory (empty for skipped cases).
	OutputDir string `json:"output_dir,omitempty"`
	// StartTime is when the case started.
	StartTime time.Time `json:"start_time"`
	// Duration is how long the case took end to end.
	Duration time.Duration `json:"duration"`
	// Degraded notes a non-fatal internal failure (collection or manifest
	// writing), visible downstream only as shorter or missing artifacts.
	Degraded string `json:"degraded,omitempty"`
}

// BatchResult aggregates a whole batch run.
type BatchResult struct {
	// StartTime is when the batch began.
	StartTime time.Time `json:"start_time"`
	// Duration is the total elapsed time, the authoritative completion signal.
	Duration time.Duration `json:"duration"`
	// TotalFiles is the number of input files enumerated.
	TotalFiles int `json:"total_files"`
	// CompletedCases is the number of cases that reached DONE.
	CompletedCases int `json:"completed_cases"`
	// SkippedFiles is the number of files that matched no role indicator.
	SkippedFiles int `json:"skipped_files"`
	// CaseResults holds individual case results in execution order.
	CaseResults []CaseResult `json:"case_results"`
}

// HarnessLogger provides centralized logging for harness execution.
type HarnessLogger interface {
	// Debug logs debug-level messages (only shown when debug=true)
	Debug(format string, args ...interface{})
	// Info logs info-level messages (shown when verbose=true or debug=true)
	Info(format string, args ...interface{})
	// Error logs error-level messages (always shown)
	Error(format string, args ...interface{})
	// IsDebugEnabled returns whether debug logging is enabled
	IsDebugEnabled() bool
	// IsVerboseEnabled returns whether verbose logging is enabled
	IsVerboseEnabled() bool
}

// ProcessSupervisor launches role executables as supervised child processes.
type ProcessSupervisor interface {
	// Launch starts a single role executable with its configuration, working
	// directory, and sink file. It returns immediately after the process has
	// been started; it does not wait for the process to become ready.
	Launch(ctx context.Context, role Role, conf RoleConfig, workDir, sinkPath string) (*SupervisedProcess, error)
	// LaunchTriad launches all three roles in LaunchOrder, applying the
	// readiness gate after the CU and after the DU.
	LaunchTriad(ctx context.Context, tc *TestCase) ([]*SupervisedProcess, error)
}

// ReadinessProbe gates the next launch on the previous role being minimally
// operational. The default implementation is a fixed delay; a probe may
// instead inspect the process's sink file or poll a health endpoint.
type ReadinessProbe interface {
	// WaitReady blocks until the process is considered ready, the probe
	// gives up, or the context is cancelled.
	WaitReady(ctx context.Context, proc *SupervisedProcess) error
}

// CleanupManager terminates role processes. Terminate is unconditional and
// idempotent: it force-kills everything matching the known role-executable
// identities and treats "nothing to kill" as success.
type CleanupManager interface {
	// Track registers a supervised process for group termination and
	// liveness snapshots.
	Track(proc *SupervisedProcess)
	// AliveRoles returns the roles whose tracked processes are still
	// running. Non-blocking; used only for manifest metadata.
	AliveRoles() []Role
	// Terminate force-kills all tracked process groups and any stray
	// process matching the role-executable identities.
	Terminate() error
}

// LogCollector derives the per-case artifacts from the raw capture files.
type LogCollector interface {
	// Collect extracts the bounded per-role tails and writes the flat text
	// summary and the structured JSON summary into the case directory.
	Collect(tc *TestCase) (*LogSummary, error)
	// WriteManifest serializes the run manifest into the case directory.
	WriteManifest(tc *TestCase, manifest *RunManifest) error
}

// BatchReporter reports progress and results of a batch run.
type BatchReporter interface {
	// ReportBatchStart is called once before the first case.
	ReportBatchStart(confDir string, totalFiles int)
	// ReportCaseStart is called when a case begins routing.
	ReportCaseStart(caseName string)
	// ReportPhase is called on every phase transition of a case.
	ReportPhase(caseName string, phase CasePhase)
	// ReportCaseSkipped is called when routing matches no role.
	ReportCaseSkipped(fileName string)
	// ReportWindowTick is called for each progress tick during the window.
	ReportWindowTick(caseName string, elapsed, total time.Duration)
	// ReportCaseResult is called when a case reaches a terminal state.
	ReportCaseResult(result CaseResult)
	// ReportBatchResult is called once after the last case.
	ReportBatchResult(result BatchResult)
}
