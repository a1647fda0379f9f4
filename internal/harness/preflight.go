package harness

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Preflight verifies once, before any case runs, that every required
// executable exists and is invocable and that every baseline configuration
// is readable. A failure here is fatal to the whole batch: each case would
// fail identically, so nothing is started.
func Preflight(binaries []string, baselines []string) error {
	for _, binary := range binaries {
		if err := checkExecutable(binary); err != nil {
			return fmt.Errorf("%w: %v", ErrPreflight, err)
		}
	}
	for _, baseline := range baselines {
		f, err := os.Open(baseline)
		if err != nil {
			return fmt.Errorf("%w: baseline configuration %s not readable: %v", ErrPreflight, baseline, err)
		}
		f.Close()
	}
	return nil
}

// checkExecutable resolves a bare name on PATH, or stats an explicit path
// and checks its mode bits.
func checkExecutable(binary string) error {
	if !strings.ContainsRune(binary, os.PathSeparator) {
		if _, err := exec.LookPath(binary); err != nil {
			return fmt.Errorf("executable %s not found on PATH: %v", binary, err)
		}
		return nil
	}

	info, err := os.Stat(binary)
	if err != nil {
		return fmt.Errorf("executable %s missing: %v", binary, err)
	}
	if info.IsDir() {
		return fmt.Errorf("executable %s is a directory", binary)
	}
	if info.Mode()&0111 == 0 {
		return fmt.Errorf("executable %s is not executable (mode %v)", binary, info.Mode().Perm())
	}
	return nil
}
