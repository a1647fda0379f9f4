//go:build !windows

package harness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeStubBinary creates an executable shell script that prints a banner,
// echoes its arguments, and then sleeps so it stays alive until terminated.
func writeStubBinary(t *testing.T, dir, name, banner string) string {
	t.Helper()
	script := "#!/bin/sh\necho \"" + banner + "\"\necho \"args: $@\"\nsleep 30\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write stub binary: %v", err)
	}
	return path
}

func TestLaunchRedirectsOutputToSink(t *testing.T) {
	dir := t.TempDir()
	gnb := writeStubBinary(t, dir, "gnb-stub.sh", "CU is up")

	logger := &mockLogger{}
	cleaner := NewCleanupManager([]string{gnb}, logger)
	t.Cleanup(func() { _ = cleaner.Terminate() })

	supervisor := NewProcessSupervisor(gnb, gnb, nil, nil, cleaner, logger)

	sink := filepath.Join(dir, "cu.stdout.log")
	conf := RoleConfig{Role: RoleCU, Path: filepath.Join(dir, "cu.conf")}
	proc, err := supervisor.Launch(context.Background(), RoleCU, conf, dir, sink)
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}
	if proc.Pid() <= 0 {
		t.Fatalf("Launch returned invalid PID %d", proc.Pid())
	}

	// Give the stub a moment to write its banner.
	time.Sleep(300 * time.Millisecond)

	data, err := os.ReadFile(sink)
	if err != nil {
		t.Fatalf("sink file not created: %v", err)
	}
	output := string(data)
	if !strings.Contains(output, "CU is up") {
		t.Errorf("sink missing banner, got: %q", output)
	}
	if !strings.Contains(output, "-O "+conf.Path) {
		t.Errorf("sink missing config argument, got: %q", output)
	}
}

func TestLaunchTrackedAndTerminated(t *testing.T) {
	dir := t.TempDir()
	gnb := writeStubBinary(t, dir, "gnb-stub.sh", "up")

	logger := &mockLogger{}
	cleaner := NewCleanupManager([]string{gnb}, logger)
	supervisor := NewProcessSupervisor(gnb, gnb, nil, nil, cleaner, logger)

	conf := RoleConfig{Role: RoleDU, Path: filepath.Join(dir, "du.conf")}
	proc, err := supervisor.Launch(context.Background(), RoleDU, conf, dir, filepath.Join(dir, "du.stdout.log"))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	alive := cleaner.AliveRoles()
	if len(alive) != 1 || alive[0] != RoleDU {
		t.Fatalf("AliveRoles = %v, want [du]", alive)
	}

	if err := cleaner.Terminate(); err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}

	if alive := cleaner.AliveRoles(); len(alive) != 0 {
		t.Errorf("AliveRoles after Terminate = %v, want empty", alive)
	}
	if !proc.terminated {
		t.Error("process handle not marked terminated")
	}
}

func TestLaunchTriadOrderAndGates(t *testing.T) {
	dir := t.TempDir()
	gnb := writeStubBinary(t, dir, "gnb-stub.sh", "gnb up")
	ue := writeStubBinary(t, dir, "ue-stub.sh", "ue up")

	logger := &mockLogger{}
	cleaner := NewCleanupManager([]string{gnb, ue}, logger)
	t.Cleanup(func() { _ = cleaner.Terminate() })

	probes := map[Role]ReadinessProbe{
		RoleCU: DelayProbe{Delay: 20 * time.Millisecond},
		RoleDU: DelayProbe{Delay: 20 * time.Millisecond},
	}
	supervisor := NewProcessSupervisor(gnb, ue, probes, nil, cleaner, logger)

	outputDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Fatal(err)
	}
	tc := &TestCase{
		Name:      "cu_case",
		OutputDir: outputDir,
		Routed: &RoutedCase{
			CaseName:     "cu_case",
			ModifiedRole: RoleCU,
			Configs: map[Role]RoleConfig{
				RoleCU: {Role: RoleCU, Path: filepath.Join(dir, "cu.conf")},
				RoleDU: {Role: RoleDU, Path: filepath.Join(dir, "du.conf")},
				RoleUE: {Role: RoleUE, Path: filepath.Join(dir, "ue.conf")},
			},
		},
	}

	procs, err := supervisor.LaunchTriad(context.Background(), tc)
	if err != nil {
		t.Fatalf("LaunchTriad returned error: %v", err)
	}
	if len(procs) != 3 {
		t.Fatalf("LaunchTriad launched %d processes, want 3", len(procs))
	}
	for i, role := range LaunchOrder {
		if procs[i].Role != role {
			t.Errorf("process %d has role %s, want %s (fixed launch order)", i, procs[i].Role, role)
		}
	}
	// The readiness gates run between launches, so the UE starts no earlier
	// than the two delays combined.
	if gap := procs[2].StartTime.Sub(procs[0].StartTime); gap < 40*time.Millisecond {
		t.Errorf("UE started %v after CU, want at least 40ms of gating", gap)
	}
}

func TestLaunchMissingBinaryFails(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")

	logger := &mockLogger{}
	cleaner := NewCleanupManager(nil, logger)
	supervisor := NewProcessSupervisor(missing, missing, nil, nil, cleaner, logger)

	_, err := supervisor.Launch(context.Background(), RoleCU, RoleConfig{Role: RoleCU, Path: "x.conf"}, dir, filepath.Join(dir, "cu.stdout.log"))
	if err == nil {
		t.Fatal("Launch with a missing binary should fail")
	}
}
