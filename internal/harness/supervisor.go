package harness

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// roleArgs returns the extra command-line arguments passed to a role's
// executable besides "-O <conf>". The gNB roles and the UE all run against
// the built-in RF simulator in standalone mode.
func roleArgs(role Role) []string {
	switch role {
	case RoleUE:
		return []string{"--rfsim", "--sa"}
	default:
		return []string{"--rfsim", "--sa", "--continuous-tx"}
	}
}

// processSupervisor implements ProcessSupervisor on top of os/exec. Each
// launched process gets its own process group so teardown can take the whole
// tree, and its combined stdout/stderr redirected to the sink file.
type processSupervisor struct {
	binaries map[Role]string
	probes   map[Role]ReadinessProbe
	extraEnv []string
	cleaner  CleanupManager
	logger   HarnessLogger
}

// NewProcessSupervisor creates a supervisor for the triad. gnbBinary serves
// the CU and DU roles, ueBinary the UE role. probes gates the launch
// sequence after the CU and after the DU; a role without a probe is not
// waited on. Every launched process is registered with the cleaner.
func NewProcessSupervisor(gnbBinary, ueBinary string, probes map[Role]ReadinessProbe, extraEnv []string, cleaner CleanupManager, logger HarnessLogger) ProcessSupervisor {
	return &processSupervisor{
		binaries: map[Role]string{
			RoleCU: gnbBinary,
			RoleDU: gnbBinary,
			RoleUE: ueBinary,
		},
		probes:   probes,
		extraEnv: extraEnv,
		cleaner:  cleaner,
		logger:   logger,
	}
}

// Launch starts one role executable. It returns as soon as the process has
// been started; readiness gating is the caller's concern.
func (s *processSupervisor) Launch(ctx context.Context, role Role, conf RoleConfig, workDir, sinkPath string) (*SupervisedProcess, error) {
	binary, ok := s.binaries[role]
	if !ok {
		return nil, fmt.Errorf("no executable configured for role %s", role.DisplayName())
	}

	sink, err := os.Create(sinkPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create sink file %s: %w", sinkPath, err)
	}

	args := append([]string{"-O", conf.Path}, roleArgs(role)...)
	cmd := exec.Command(binary, args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), s.extraEnv...)
	// Combined stream: the soft modems interleave stdout and stderr freely.
	cmd.Stdout = sink
	cmd.Stderr = sink
	configureProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		sink.Close()
		return nil, fmt.Errorf("failed to start %s (%s): %w", role.DisplayName(), binary, err)
	}
	// The child holds its own copy of the sink descriptor.
	sink.Close()

	proc := &SupervisedProcess{
		Role:      role,
		Cmd:       cmd,
		SinkPath:  sinkPath,
		StartTime: time.Now(),
	}
	s.cleaner.Track(proc)

	s.logger.Debug("🚀 Started %s (PID: %d) with config %s\n", role.DisplayName(), proc.Pid(), conf.Path)
	return proc, nil
}

// LaunchTriad launches the three roles in their fixed order, running the
// configured readiness probe after each of the first two launches. The gate
// is heuristic: a probe that gives up does not fail the launch.
func (s *processSupervisor) LaunchTriad(ctx context.Context, tc *TestCase) ([]*SupervisedProcess, error) {
	procs := make([]*SupervisedProcess, 0, len(LaunchOrder))

	for _, role := range LaunchOrder {
		if err := ctx.Err(); err != nil {
			return procs, err
		}

		conf := tc.Routed.Configs[role]
		proc, err := s.Launch(ctx, role, conf, tc.OutputDir, tc.SinkPath(role))
		if err != nil {
			return procs, err
		}
		procs = append(procs, proc)

		if probe, ok := s.probes[role]; ok && role != RoleUE {
			s.logger.Info("⏳ Waiting for %s to settle before launching the next role...\n", role.DisplayName())
			if err := probe.WaitReady(ctx, proc); err != nil {
				return procs, err
			}
		}
	}

	return procs, nil
}
