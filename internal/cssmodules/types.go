package cssmodules

import (
	"errors"
	"fmt"

	"github.com/yacobolo/cssmodules/internal/interpolate"
)

// Config defaults
const (
	DefaultGenerateScopedName = "[hash:base64]"
	DefaultCSSModulesSuffix   = ".css"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the per-module rewrite configuration
type Config struct {
	GenerateScopedName string `json:"generate_scoped_name" yaml:"generate-scoped-name"` // "[name]__[local]___[hash:base64:5]"
	HashPrefix         string `json:"hash_prefix" yaml:"hash-prefix"`                   // mixed into every hashed seed
	CSSModulesSuffix   string `json:"css_modules_suffix" yaml:"css-modules-suffix"`     // ".module.css"
	Root               string `json:"root" yaml:"root"`                                 // context directory, "" = working directory
	ForbidNamedImports bool   `json:"forbid_named_imports" yaml:"forbid-named-imports"` // report `import { a } from "x.css"` instead of rewriting
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		GenerateScopedName: DefaultGenerateScopedName,
		CSSModulesSuffix:   DefaultCSSModulesSuffix,
	}
}

// Validate checks the naming pattern and suffix.
func (c Config) Validate() error {
	if c.GenerateScopedName == "" {
		return fmt.Errorf("%w: generate-scoped-name must not be empty", ErrInvalidConfig)
	}
	if c.CSSModulesSuffix == "" {
		return fmt.Errorf("%w: css-modules-suffix must not be empty", ErrInvalidConfig)
	}
	if err := interpolate.Validate(c.GenerateScopedName); err != nil {
		return fmt.Errorf("%w: generate-scoped-name: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ImportKind distinguishes how a stylesheet binding was imported.
type ImportKind int

const (
	// KindDefault is `import styles from "./a.css"`.
	KindDefault ImportKind = iota
	// KindNamespace is `import * as styles from "./a.css"`.
	KindNamespace
	// KindNamed is `import { title as t } from "./a.css"`.
	KindNamed
)

func (k ImportKind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindNamespace:
		return "namespace"
	case KindNamed:
		return "named"
	}
	return fmt.Sprintf("ImportKind(%d)", int(k))
}

// ResolvedImport is one recorded stylesheet import specifier.
type ResolvedImport struct {
	Local    string     // local binding name
	Kind     ImportKind // how the binding was imported
	Exported string     // exported name, KindNamed only
	Source   string     // absolute stylesheet path
}

// Stats counts what a rewrite did
type Stats struct {
	ImportsRewritten  int `json:"ImportsRewritten"`  // import declarations whose specifiers were removed
	SpecifiersRemoved int `json:"SpecifiersRemoved"` // specifiers recorded and removed
	NamesInjected     int `json:"NamesInjected"`     // occurrences replaced by a literal
	Diagnostics       int `json:"Diagnostics"`       // unsupported sites reported
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.ImportsRewritten += other.ImportsRewritten
	s.SpecifiersRemoved += other.SpecifiersRemoved
	s.NamesInjected += other.NamesInjected
	s.Diagnostics += other.Diagnostics
}

// DiagnosticKind identifies the construct a diagnostic points at.
type DiagnosticKind int

const (
	// DiagComputedAccess is `styles[expr]` with a non-literal expr.
	DiagComputedAccess DiagnosticKind = iota
	// DiagNamedImport is a named specifier rejected by ForbidNamedImports.
	DiagNamedImport
)

// Diagnostic is a non-fatal problem found while rewriting. It carries no
// position; Module.Locate attaches one.
type Diagnostic struct {
	Kind    DiagnosticKind
	Binding string // local binding at the site
	Message string
	Site    int // ordinal of this Kind/Binding site in source order
}

// Diagnostic messages
const (
	MsgComputedAccess = "computed property access on %q cannot be injected"
	MsgNamedImport    = "named import %q from stylesheet module is not allowed"
)

// FileResult is the outcome of rewriting one module.
type FileResult struct {
	Path       string  `json:"Path"`
	OutputPath string  `json:"OutputPath,omitempty"`
	Code       string  `json:"-"`
	Changed    bool    `json:"Changed"`
	Stats      Stats   `json:"Stats"`
	Issues     []Issue `json:"Issues"`
}

// Report aggregates a batch run
type Report struct {
	Files        []FileResult
	Issues       []Issue
	Stats        Stats
	FilesScanned int
	FilesChanged int
	FilesWritten int
	Warnings     []string
}

// ErrorCount returns the number of error-severity issues.
func (r *Report) ErrorCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// OutputFormat represents the report output format
type OutputFormat string

const (
	// OutputIssues shows only diagnostics in golangci-lint format (CI-friendly)
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows statistics only
	OutputSummary OutputFormat = "summary"
	// OutputFull shows diagnostics and statistics
	OutputFull OutputFormat = "full"
	// OutputJSON exports structured data in JSON format (tooling integration)
	OutputJSON OutputFormat = "json"
)

// ReportConfig controls how a Report is rendered
type ReportConfig struct {
	PrintIssuedLines bool
	PrintLinterName  bool
	UseColors        bool
	Verbose          bool
}
