package harness

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// consoleReporter implements BatchReporter with human-readable output,
// printing phase transitions as they happen and a summary table at the end.
type consoleReporter struct {
	verbose bool
	debug   bool
}

// NewConsoleReporter creates a reporter that writes to stdout.
func NewConsoleReporter(verbose, debug bool) BatchReporter {
	return &consoleReporter{
		verbose: verbose,
		debug:   debug,
	}
}

func (r *consoleReporter) ReportBatchStart(confDir string, totalFiles int) {
	fmt.Printf("🧪 Starting gnbtest batch run\n")
	fmt.Printf("📁 Input directory: %s (%d configuration file(s))\n", confDir, totalFiles)
	fmt.Printf("\n")
}

func (r *consoleReporter) ReportCaseStart(caseName string) {
	fmt.Printf("🎯 Starting case: %s\n", caseName)
}

func (r *consoleReporter) ReportPhase(caseName string, phase CasePhase) {
	if r.verbose || r.debug {
		fmt.Printf("   🔄 %s: %s\n", caseName, phase)
	}
}

func (r *consoleReporter) ReportCaseSkipped(fileName string) {
	fmt.Printf("⏭️  Skipped %s: no role indicator in file name\n", fileName)
}

func (r *consoleReporter) ReportWindowTick(caseName string, elapsed, total time.Duration) {
	if r.verbose || r.debug {
		fmt.Printf("   ⏱️  %s: window %v/%v\n", caseName, elapsed, total)
	}
}

func (r *consoleReporter) ReportCaseResult(result CaseResult) {
	icon := "✅"
	if result.Degraded != "" {
		icon = "⚠️ "
	}
	fmt.Printf("%s Case %s finished in %v", icon, result.CaseName, result.Duration.Round(time.Second))
	if result.Degraded != "" {
		fmt.Printf(" (degraded: %s)", result.Degraded)
	}
	fmt.Printf("\n")
	if result.OutputDir != "" {
		fmt.Printf("   📂 Artifacts: %s\n", result.OutputDir)
	}
	fmt.Printf("\n")
}

func (r *consoleReporter) ReportBatchResult(result BatchResult) {
	fmt.Printf("🏁 Batch Complete\n")
	fmt.Printf("⏱️  Total elapsed: %v\n", result.Duration.Round(time.Second))
	fmt.Printf("📊 Results:\n")
	fmt.Printf("   ✅ Completed: %d\n", result.CompletedCases)

	if result.SkippedFiles > 0 {
		fmt.Printf("   ⏭️  Skipped: %d\n", result.SkippedFiles)
	}
	fmt.Printf("   📈 Total files: %d\n", result.TotalFiles)

	if len(result.CaseResults) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Case", "Outcome", "Duration", "Artifacts"})
		for _, cr := range result.CaseResults {
			t.AppendRow(table.Row{cr.CaseName, cr.Outcome, cr.Duration.Round(time.Second), cr.OutputDir})
		}
		t.Render()
	}
}
