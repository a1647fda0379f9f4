//go:build !windows

package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPreflightPasses(t *testing.T) {
	dir := t.TempDir()
	baseline := filepath.Join(dir, "cu.conf")
	if err := os.WriteFile(baseline, []byte("Active_gNBs = ();"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Preflight([]string{"/bin/sh", "sh"}, []string{baseline}); err != nil {
		t.Fatalf("Preflight failed unexpectedly: %v", err)
	}
}

func TestPreflightMissingBinary(t *testing.T) {
	err := Preflight([]string{filepath.Join(t.TempDir(), "nr-softmodem")}, nil)
	if err == nil {
		t.Fatal("Preflight should fail for a missing executable")
	}
	if !errors.Is(err, ErrPreflight) {
		t.Errorf("error %v does not wrap ErrPreflight", err)
	}
}

func TestPreflightBinaryNotOnPath(t *testing.T) {
	err := Preflight([]string{"gnbtest-binary-that-does-not-exist"}, nil)
	if !errors.Is(err, ErrPreflight) {
		t.Errorf("error %v does not wrap ErrPreflight", err)
	}
}

func TestPreflightNonExecutableFile(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "nr-softmodem")
	if err := os.WriteFile(binary, []byte("not a program"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Preflight([]string{binary}, nil)
	if !errors.Is(err, ErrPreflight) {
		t.Errorf("error %v does not wrap ErrPreflight", err)
	}
}

func TestPreflightMissingBaseline(t *testing.T) {
	err := Preflight([]string{"/bin/sh"}, []string{filepath.Join(t.TempDir(), "absent.conf")})
	if !errors.Is(err, ErrPreflight) {
		t.Errorf("error %v does not wrap ErrPreflight", err)
	}
}
