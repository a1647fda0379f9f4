package harness

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
)

// cleanupManager implements CleanupManager. It kills on two paths: the
// process groups of the processes it tracked itself, and a pgrep sweep over
// the role-executable identities to catch strays left by a prior crash. The
// executables are opaque and may not handle graceful shutdown, so
// termination is SIGKILL from the start.
type cleanupManager struct {
	identities []string
	logger     HarnessLogger

	mu      sync.Mutex
	tracked []*SupervisedProcess
}

// NewCleanupManager creates a cleanup manager for the given executable
// identities (the base names of the role binaries).
func NewCleanupManager(binaries []string, logger HarnessLogger) CleanupManager {
	identities := make([]string, 0, len(binaries))
	seen := make(map[string]bool)
	for _, bin := range binaries {
		name := filepath.Base(bin)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		identities = append(identities, name)
	}
	return &cleanupManager{
		identities: identities,
		logger:     logger,
	}
}

// Track registers a launched process for group termination.
func (c *cleanupManager) Track(proc *SupervisedProcess) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = append(c.tracked, proc)
}

// AliveRoles returns the roles of tracked processes that still exist. The
// result is always non-nil; it ends up in the manifest, where an empty JSON
// array is the contract for no-survivors.
func (c *cleanupManager) AliveRoles() []Role {
	c.mu.Lock()
	defer c.mu.Unlock()

	alive := make([]Role, 0, len(c.tracked))
	for _, proc := range c.tracked {
		if proc.terminated || proc.Cmd.Process == nil {
			continue
		}
		if processAlive(proc.Pid()) {
			alive = append(alive, proc.Role)
		}
	}
	return alive
}

// Terminate force-kills every tracked process group and every stray process
// matching the known identities. Invoking it when nothing matches is a
// successful no-op, and repeated invocations are safe.
func (c *cleanupManager) Terminate() error {
	c.mu.Lock()
	tracked := c.tracked
	c.tracked = nil
	c.mu.Unlock()

	for _, proc := range tracked {
		if proc.terminated || proc.Cmd.Process == nil {
			continue
		}
		if err := killProcessGroup(c.logger, proc.Pid(), syscall.SIGKILL); err != nil {
			c.logger.Debug("⚠️  Failed to kill %s process group %d: %v\n", proc.Role.DisplayName(), proc.Pid(), err)
		}
		// Reap the child so it does not linger as a zombie. The process was
		// SIGKILLed, so this returns promptly.
		_ = proc.Cmd.Wait()
		proc.terminated = true
		c.logger.Debug("🛑 Terminated %s (PID: %d)\n", proc.Role.DisplayName(), proc.Pid())
	}

	for _, identity := range c.identities {
		c.killStrays(identity)
	}
	return nil
}

// killStrays kills any process whose command line matches the identity,
// regardless of which supervisor instance started it. Best-effort: failures
// are logged rather than returned, since cleanup must not block the batch.
func (c *cleanupManager) killStrays(identity string) {
	currentPID := os.Getpid()

	cmd := exec.Command("pgrep", "-f", identity)
	output, err := cmd.Output()
	if err != nil {
		// pgrep returns exit code 1 when no processes found, which is fine
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			c.logger.Debug("No stray %s processes found\n", identity)
			return
		}
		// Other errors are unexpected but not fatal
		c.logger.Debug("Could not check for stray %s processes: %v\n", identity, err)
		return
	}

	killedCount := 0
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}

		// Don't kill ourselves
		if pid == currentPID {
			continue
		}

		if err := killProcessGroup(c.logger, pid, syscall.SIGKILL); err != nil {
			// Process might already be gone, that's fine
			c.logger.Debug("Could not kill PID %d: %v\n", pid, err)
			continue
		}

		killedCount++
		c.logger.Debug("Killed stray %s process PID %d\n", identity, pid)
	}

	if killedCount > 0 {
		c.logger.Info("🧹 Cleaned up %d stray %s process(es)\n", killedCount, identity)
	}
}
