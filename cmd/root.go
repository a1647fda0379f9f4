package cmd

import (
	"errors"
	"os"

	"gnbtest/internal/harness"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
// These follow common conventions so batch scripts can distinguish why a run stopped.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodePreflight indicates a fatal pre-batch condition: a required
	// executable or baseline is missing, or the input directory is empty.
	ExitCodePreflight = 2
	// ExitCodeInterrupted indicates the batch was aborted by an external
	// signal after best-effort cleanup (128 + SIGINT).
	ExitCodeInterrupted = 130
)

// rootCmd represents the base command for the gnbtest application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gnbtest",
	Short: "Drive repeatable integration tests of a CU/DU/UE triad",
	Long: `gnbtest launches a three-role 5G network stack (CU, DU, UE) against
modified configuration files, holds each triad for a fixed observation
window, then tears everything down and persists the captured output for
offline analysis.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gnbtest version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if errors.Is(err, harness.ErrInterrupted) {
		return ExitCodeInterrupted
	}
	if errors.Is(err, harness.ErrPreflight) || errors.Is(err, harness.ErrNoInputFiles) {
		return ExitCodePreflight
	}

	// Default to general error
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
