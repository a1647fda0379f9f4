package config

import "time"

// HarnessConfig is the top-level configuration structure for gnbtest.
type HarnessConfig struct {
	Roles  RolesConfig  `yaml:"roles"`
	Timing TimingConfig `yaml:"timing"`
	Output OutputConfig `yaml:"output"`
}

// RolesConfig defines the fixed per-role inputs of a batch run: the baseline
// configuration for each role and the two executables (the gNB soft modem is
// shared by the CU and DU roles, the UE soft modem runs the client role).
type RolesConfig struct {
	CUBaseline string `yaml:"cuBaseline,omitempty"` // Baseline CU configuration file
	DUBaseline string `yaml:"duBaseline,omitempty"` // Baseline DU configuration file
	UEBaseline string `yaml:"ueBaseline,omitempty"` // Baseline UE configuration file
	GNBBinary  string `yaml:"gnbBinary,omitempty"`  // Executable for the CU and DU roles
	UEBinary   string `yaml:"ueBinary,omitempty"`   // Executable for the UE role
}

// TimingConfig collects the tunable delays of a batch run.
type TimingConfig struct {
	// CUStartupDelay is the pause after launching the CU before the DU starts.
	CUStartupDelay time.Duration `yaml:"cuStartupDelay,omitempty"`
	// DUStartupDelay is the pause after launching the DU before the UE starts.
	DUStartupDelay time.Duration `yaml:"duStartupDelay,omitempty"`
	// Window is the fixed observation window per case.
	Window time.Duration `yaml:"window,omitempty"`
	// ProgressInterval is the spacing of progress ticks during the window.
	ProgressInterval time.Duration `yaml:"progressInterval,omitempty"`
	// CasePause separates successive cases to avoid teardown/startup contention.
	CasePause time.Duration `yaml:"casePause,omitempty"`
}

// OutputConfig defines where and how case artifacts are written.
type OutputConfig struct {
	// Dir is the root directory that receives one subdirectory per case.
	Dir string `yaml:"dir,omitempty"`
	// TailLines is the number of trailing output lines captured per role.
	TailLines int `yaml:"tailLines,omitempty"`
}
