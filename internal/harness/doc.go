// Package harness implements the per-case orchestration of a three-role 5G
// test triad: a CU (control-plane node), a DU (distributed unit), and a UE
// (client), each an opaque external executable.
//
// # Architecture
//
// One batch run enumerates a directory of modified configuration files and
// executes one case per file:
//
//	ConfRouter        → decide which role the file modifies, substitute
//	                    baselines for the other two roles
//	CleanupManager    → kill anything left over from a previous case or crash
//	ProcessSupervisor → launch CU, DU, UE in order with readiness gates
//	TestWindow        → hold the triad for a fixed observation window
//	CleanupManager    → tear the triad down (unconditional SIGKILL)
//	LogCollector      → extract bounded per-role tails, write the flat and
//	                    structured summaries and the run manifest
//
// CaseRunner composes these per case; BatchDriver sequences cases and owns
// preflight and interruption handling. The harness itself is single-threaded:
// the only concurrency it manages is the three child processes.
//
// # Artifacts
//
// Each case owns a uniquely named directory (timestamp + case name)
// containing the raw per-role capture files, tail_summary.txt,
// log_summary.json, and manifest.json. The names and shapes of these files
// are the contract toward the downstream log-classification and
// metrics-analysis tooling; they must stay stable.
//
// # Failure model
//
// Preflight failures and empty input directories abort the batch before any
// case runs. Files without a role indicator are skipped informationally. A
// role process dying mid-window is deliberately not detected: the window
// always runs its full duration and the degradation is visible only as a
// shorter captured tail. Interruption triggers best-effort cleanup and a
// distinguished exit status.
package harness
