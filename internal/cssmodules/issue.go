package cssmodules

// LinterName is reported as FromLinter on every issue.
const LinterName = "cssmodules"

// Issue represents a single diagnostic in golangci-lint format
type Issue struct {
	FromLinter  string     `json:"FromLinter"`  // "cssmodules"
	Text        string     `json:"Text"`        // "computed property access on \"styles\" cannot be injected"
	Severity    string     `json:"Severity"`    // "", "warning", "error"
	SourceLines []string   `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos   `json:"Pos"`         // File location
	LineRange   *LineRange `json:"LineRange"`   // Optional range
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "src/components/Button.js"
	Line     int    `json:"Line"`     // 12
	Column   int    `json:"Column"`   // 5 (1-based, start of the binding)
	Offset   int    `json:"Offset"`   // byte offset into the source
}

// LineRange specifies a range of lines
type LineRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)
