package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gnbtest/internal/config"
	"gnbtest/internal/harness"
	"gnbtest/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	runConfDir    string
	runOutputDir  string
	runCUBaseline string
	runDUBaseline string
	runUEBaseline string
	runGNBBinary  string
	runUEBinary   string

	runCUDelay          time.Duration
	runDUDelay          time.Duration
	runWindow           time.Duration
	runProgressInterval time.Duration
	runCasePause        time.Duration
	runTailLines        int

	runReadyPattern string
	runReadyTimeout time.Duration

	runVerbose    bool
	runDebug      bool
	runConfigPath string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a batch of triad test cases from a configuration directory",
	Long: `The run command enumerates all configuration files in the input directory
in deterministic lexicographic order and executes one test case per file.

For each case, the file's base name decides which role it modifies (cu, du,
or ue, checked in that priority order); the other two roles run their
baseline configurations. The three role executables are launched with
staggered startup delays, held for the observation window, then force-killed.
Each case leaves a uniquely named output directory containing the raw
per-role captures, a flat tail summary, a structured JSON summary, and a run
manifest.

Files whose names contain none of the role indicators are skipped and
reported. A missing executable or baseline aborts the batch before any case
runs. An interrupt (Ctrl-C) kills all role processes and exits with a
distinguished status.

Example usage:
  gnbtest run --conf-dir ./cases \
    --cu-baseline ./baseline/cu.conf \
    --du-baseline ./baseline/du.conf \
    --ue-baseline ./baseline/ue.conf

  gnbtest run --conf-dir ./cases --window 30s --progress-interval 5s
  gnbtest run --conf-dir ./cases --ready-pattern "got sync" --verbose`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Input and output locations
	runCmd.Flags().StringVar(&runConfDir, "conf-dir", "", "Directory of modified configuration files, one case per file (required)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "Root directory for per-case artifacts")

	// Role inputs
	runCmd.Flags().StringVar(&runCUBaseline, "cu-baseline", "", "Baseline CU configuration file")
	runCmd.Flags().StringVar(&runDUBaseline, "du-baseline", "", "Baseline DU configuration file")
	runCmd.Flags().StringVar(&runUEBaseline, "ue-baseline", "", "Baseline UE configuration file")
	runCmd.Flags().StringVar(&runGNBBinary, "gnb-bin", "", "gNB soft modem executable (CU and DU roles)")
	runCmd.Flags().StringVar(&runUEBinary, "ue-bin", "", "UE soft modem executable")

	// Timing tunables
	runCmd.Flags().DurationVar(&runCUDelay, "cu-delay", 0, "Startup delay after launching the CU")
	runCmd.Flags().DurationVar(&runDUDelay, "du-delay", 0, "Startup delay after launching the DU")
	runCmd.Flags().DurationVar(&runWindow, "window", 0, "Observation window per case")
	runCmd.Flags().DurationVar(&runProgressInterval, "progress-interval", 0, "Spacing of progress ticks during the window")
	runCmd.Flags().DurationVar(&runCasePause, "case-pause", 0, "Pause between successive cases")
	runCmd.Flags().IntVar(&runTailLines, "tail-lines", 0, "Trailing log lines captured per role")

	// Readiness gating
	runCmd.Flags().StringVar(&runReadyPattern, "ready-pattern", "", "Log pattern that marks a gNB role ready (replaces the fixed startup delay)")
	runCmd.Flags().DurationVar(&runReadyTimeout, "ready-timeout", 30*time.Second, "Upper bound on waiting for the ready pattern")

	// Output and debugging
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Enable verbose output (phase transitions, window ticks)")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Enable debug logging")

	// Harness configuration path
	runCmd.Flags().StringVar(&runConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")

	_ = runCmd.MarkFlagRequired("conf-dir")

	runCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if runWindow < 0 || runProgressInterval < 0 || runCUDelay < 0 || runDUDelay < 0 || runCasePause < 0 {
			return fmt.Errorf("durations must not be negative")
		}
		if runTailLines < 0 {
			return fmt.Errorf("tail-lines must not be negative, got %d", runTailLines)
		}
		return nil
	}
}

// resolveConfig loads the harness configuration file and overlays every flag
// the user set explicitly. Flags win over the file, the file wins over
// compiled defaults.
func resolveConfig(cmd *cobra.Command) (config.HarnessConfig, error) {
	cfg, err := config.LoadConfig(runConfigPath)
	if err != nil {
		return config.HarnessConfig{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir = runOutputDir
	}
	if flags.Changed("cu-baseline") {
		cfg.Roles.CUBaseline = runCUBaseline
	}
	if flags.Changed("du-baseline") {
		cfg.Roles.DUBaseline = runDUBaseline
	}
	if flags.Changed("ue-baseline") {
		cfg.Roles.UEBaseline = runUEBaseline
	}
	if flags.Changed("gnb-bin") {
		cfg.Roles.GNBBinary = runGNBBinary
	}
	if flags.Changed("ue-bin") {
		cfg.Roles.UEBinary = runUEBinary
	}
	if flags.Changed("cu-delay") {
		cfg.Timing.CUStartupDelay = runCUDelay
	}
	if flags.Changed("du-delay") {
		cfg.Timing.DUStartupDelay = runDUDelay
	}
	if flags.Changed("window") {
		cfg.Timing.Window = runWindow
	}
	if flags.Changed("progress-interval") {
		cfg.Timing.ProgressInterval = runProgressInterval
	}
	if flags.Changed("case-pause") {
		cfg.Timing.CasePause = runCasePause
	}
	if flags.Changed("tail-lines") {
		cfg.Output.TailLines = runTailLines
	}

	if cfg.Roles.CUBaseline == "" || cfg.Roles.DUBaseline == "" || cfg.Roles.UEBaseline == "" {
		return config.HarnessConfig{}, fmt.Errorf("all three baselines are required (--cu-baseline, --du-baseline, --ue-baseline or config.yaml)")
	}

	return cfg, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	logLevel := logging.LevelInfo
	if runDebug {
		logLevel = logging.LevelDebug
	}
	logging.Init(logLevel, os.Stderr)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Handle interrupts: cancel the batch context, which unwinds through
	// the window and launch gates into cleanup.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := harness.NewStdoutLogger(runVerbose, runDebug)
	reporter := harness.NewConsoleReporter(runVerbose, runDebug)

	binaries := []string{cfg.Roles.GNBBinary, cfg.Roles.UEBinary}
	baselines := []string{cfg.Roles.CUBaseline, cfg.Roles.DUBaseline, cfg.Roles.UEBaseline}

	cleaner := harness.NewCleanupManager(binaries, logger)
	router := harness.NewConfRouter(cfg.Roles.CUBaseline, cfg.Roles.DUBaseline, cfg.Roles.UEBaseline, logger)

	probes := map[harness.Role]harness.ReadinessProbe{
		harness.RoleCU: harness.DelayProbe{Delay: cfg.Timing.CUStartupDelay},
		harness.RoleDU: harness.DelayProbe{Delay: cfg.Timing.DUStartupDelay},
	}
	if runReadyPattern != "" {
		probe := harness.NewLogPatternProbe(runReadyPattern, runReadyTimeout, logger)
		probes[harness.RoleCU] = probe
		probes[harness.RoleDU] = probe
	}

	supervisor := harness.NewProcessSupervisor(cfg.Roles.GNBBinary, cfg.Roles.UEBinary, probes, nil, cleaner, logger)
	window := harness.NewTestWindow(logger)
	collector := harness.NewLogCollector(cfg.Output.TailLines, logger)

	runner := harness.NewCaseRunner(router, supervisor, cleaner, window, collector, reporter, logger,
		cfg.Output.Dir, cfg.Timing.Window, cfg.Timing.ProgressInterval)
	driver := harness.NewBatchDriver(runner, reporter, logger, cfg.Timing.CasePause, binaries, baselines)

	_, err = driver.Run(ctx, runConfDir)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}
	return nil
}
