package cssmodules

import (
	"log/slog"
	"time"

	modules "github.com/yacobolo/cssmodules/internal/cssmodules"
)

// Re-exported module types
type (
	Config       = modules.Config
	FileResult   = modules.FileResult
	Issue        = modules.Issue
	IssuePos     = modules.IssuePos
	Stats        = modules.Stats
	OutputFormat = modules.OutputFormat
	ReportConfig = modules.ReportConfig
	Resolver     = modules.Resolver

	// TransformResult aggregates a batch run
	TransformResult = modules.Report
)

// Output formats
const (
	OutputIssues  = modules.OutputIssues
	OutputSummary = modules.OutputSummary
	OutputFull    = modules.OutputFull
	OutputJSON    = modules.OutputJSON
)

// Batch defaults
const (
	DefaultOutputDir = "dist"
	DefaultDebounce  = 200 * time.Millisecond
)

// DefaultPaths are the globs scanned when TransformConfig.Paths is empty.
// The parser does not understand JSX, so .jsx files are not included.
var DefaultPaths = []string{"src/**/*.{js,mjs,cjs}"}

// DefaultConfig returns the default module configuration.
func DefaultConfig() Config {
	return modules.DefaultConfig()
}

// TransformConfig holds batch configuration
type TransformConfig struct {
	Module     Config   // per-module rewrite configuration
	WorkingDir string   // base for relative paths, "" = process working directory
	Paths      []string // doublestar globs, relative to WorkingDir
	Exclude    []string // extra doublestar globs matched against WorkingDir-relative paths
	OutputDir  string   // "" = keep results in memory only
	Workers    int      // 0 = runtime.NumCPU()
	Debounce   time.Duration
	Resolver   Resolver // nil = lexical path resolution
	Logger     *slog.Logger
}
