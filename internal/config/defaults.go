package config

import "time"

const (
	// DefaultTailLines is the number of trailing log lines kept per role.
	DefaultTailLines = 100

	// DefaultOutputDir is the root directory for per-case artifacts.
	DefaultOutputDir = "results"
)

// GetDefaultConfig returns the default configuration for gnbtest.
// The soft modem names match an OAI rfsimulator deployment on PATH;
// baselines have no sensible default and must be supplied.
func GetDefaultConfig() HarnessConfig {
	return HarnessConfig{
		Roles: RolesConfig{
			GNBBinary: "nr-softmodem",
			UEBinary:  "nr-uesoftmodem",
		},
		Timing: TimingConfig{
			CUStartupDelay:   10 * time.Second,
			DUStartupDelay:   10 * time.Second,
			Window:           60 * time.Second,
			ProgressInterval: 5 * time.Second,
			CasePause:        5 * time.Second,
		},
		Output: OutputConfig{
			Dir:       DefaultOutputDir,
			TailLines: DefaultTailLines,
		},
	}
}
