package harness

import "errors"

// Sentinel errors the cmd layer maps to semantic exit codes.
var (
	// ErrPreflight indicates a required executable or baseline configuration
	// failed the preflight check. No case executes after this.
	ErrPreflight = errors.New("preflight check failed")

	// ErrNoInputFiles indicates the input directory contains no
	// configuration files to run.
	ErrNoInputFiles = errors.New("no input configuration files found")

	// ErrInterrupted indicates the batch was aborted by an external signal
	// after best-effort cleanup.
	ErrInterrupted = errors.New("batch interrupted")
)
