package cssmodules

import (
	"fmt"
	"io"

	modules "github.com/yacobolo/cssmodules/internal/cssmodules"
)

// DetermineOutputFormat selects the appropriate output format based on flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Explicit --quiet flag wins (exit code only)
	if quiet {
		return OutputIssues // Issues only, suppressed by the CLI
	}

	switch OutputFormat(formatFlag) {
	case OutputIssues, OutputSummary, OutputFull, OutputJSON:
		return OutputFormat(formatFlag)
	}

	return DetermineDefaultOutputFormat()
}

// DetermineDefaultOutputFormat returns the default output format
// Following golangci-lint's UX: issues only by default
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputIssues
}

// WriteOutput writes the transform result in the specified format
func WriteOutput(w io.Writer, result *TransformResult, format OutputFormat, config ReportConfig) error {
	switch format {
	case OutputIssues:
		reporter := modules.NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		if len(result.Issues) > 0 || config.Verbose {
			reporter.PrintSummary(result)
		}

	case OutputSummary:
		useColors := modules.ShouldUseColors(config.UseColors, w)
		verboseReporter := modules.NewVerboseReporter(w, useColors)
		verboseReporter.PrintStatistics(result)
		verboseReporter.PrintWarnings(result)

	case OutputFull:
		reporter := modules.NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result)

		verboseReporter := modules.NewVerboseReporter(w, reporter.UseColors())
		verboseReporter.PrintStatistics(result)
		verboseReporter.PrintFiles(result, 0)
		verboseReporter.PrintWarnings(result)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
