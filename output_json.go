package cssmodules

import (
	"encoding/json"
	"io"
	"time"

	modules "github.com/yacobolo/cssmodules/internal/cssmodules"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Stats     JSONStats   `json:"stats"`
	Issues    []JSONIssue `json:"issues"`
	Files     []JSONFile  `json:"files"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// JSONSummary contains high-level counts
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	FilesScanned int `json:"files_scanned"`
	FilesChanged int `json:"files_changed"`
	FilesWritten int `json:"files_written"`
}

// JSONStats contains rewrite statistics
type JSONStats struct {
	ImportsRewritten  int `json:"imports_rewritten"`
	SpecifiersRemoved int `json:"specifiers_removed"`
	NamesInjected     int `json:"names_injected"`
	Diagnostics       int `json:"diagnostics"`
}

// JSONIssue represents a single diagnostic
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"` // Optional source line
}

// JSONFile represents one processed module
type JSONFile struct {
	Path          string `json:"path"`
	Output        string `json:"output,omitempty"`
	Changed       bool   `json:"changed"`
	NamesInjected int    `json:"names_injected"`
	Issues        int    `json:"issues"`
}

// WriteJSON writes the transform result as JSON
func WriteJSON(w io.Writer, result *TransformResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts a TransformResult to JSONOutput
func buildJSONOutput(result *TransformResult) JSONOutput {
	var errors, warnings int
	for _, issue := range result.Issues {
		switch issue.Severity {
		case modules.SeverityError:
			errors++
		case modules.SeverityWarning:
			warnings++
		}
	}

	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		jsonIssues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}

	jsonFiles := make([]JSONFile, len(result.Files))
	for i, file := range result.Files {
		jsonFiles[i] = JSONFile{
			Path:          file.Path,
			Output:        file.OutputPath,
			Changed:       file.Changed,
			NamesInjected: file.Stats.NamesInjected,
			Issues:        len(file.Issues),
		}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       errors,
			Warnings:     warnings,
			FilesScanned: result.FilesScanned,
			FilesChanged: result.FilesChanged,
			FilesWritten: result.FilesWritten,
		},
		Stats: JSONStats{
			ImportsRewritten:  result.Stats.ImportsRewritten,
			SpecifiersRemoved: result.Stats.SpecifiersRemoved,
			NamesInjected:     result.Stats.NamesInjected,
			Diagnostics:       result.Stats.Diagnostics,
		},
		Issues:   jsonIssues,
		Files:    jsonFiles,
		Warnings: result.Warnings,
	}
}
