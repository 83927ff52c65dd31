package cssmodules

import (
	"fmt"
	"io"
)

// VerboseReporter prints per-run statistics and the list of rewritten files
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs rewrite statistics
func (r *VerboseReporter) PrintStatistics(report *Report) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "CSS Modules Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------------")

	fmt.Fprintf(r.w, "Files Scanned:       %d\n", report.FilesScanned)
	fmt.Fprintf(r.w, "Files Rewritten:     %d\n", report.FilesChanged)
	fmt.Fprintf(r.w, "Files Written:       %d\n", report.FilesWritten)
	fmt.Fprintf(r.w, "Imports Rewritten:   %d\n", report.Stats.ImportsRewritten)
	fmt.Fprintf(r.w, "Specifiers Removed:  %d\n", report.Stats.SpecifiersRemoved)
	fmt.Fprintf(r.w, "Names Injected:      %d\n", report.Stats.NamesInjected)
	fmt.Fprintf(r.w, "Diagnostics:         %d\n", report.Stats.Diagnostics)
}

// PrintFiles lists each scanned file with what happened to it. Only the
// first limit files are listed when limit is positive.
func (r *VerboseReporter) PrintFiles(report *Report, limit int) {
	if len(report.Files) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Files", r.useColors))
	fmt.Fprintln(r.w, "-----")

	for i, file := range report.Files {
		if limit > 0 && i >= limit {
			fmt.Fprintf(r.w, "... and %d more\n", len(report.Files)-limit)
			break
		}
		if !file.Changed {
			fmt.Fprintln(r.w, RenderStyle(StyleGray, "  "+file.Path+" (unchanged)", r.useColors))
			continue
		}
		target := file.Path
		if file.OutputPath != "" {
			target = file.OutputPath
		}
		fmt.Fprintf(r.w, "%s %s → %s (%d injected)\n",
			RenderStyle(StyleGreen, "✓", r.useColors), file.Path, target, file.Stats.NamesInjected)
	}
}

// PrintWarnings shows run warnings
func (r *VerboseReporter) PrintWarnings(report *Report) {
	if len(report.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range report.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}
