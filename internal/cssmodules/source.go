package cssmodules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// Module is a parsed JavaScript module together with its source text.
type Module struct {
	Path   string
	Source string
	AST    *js.AST
}

// ParseModule parses src as an ES module. Syntax errors are returned as
// *parse.Error wrapped with the path.
func ParseModule(path string, src []byte) (*Module, error) {
	source := string(src)
	ast, err := js.Parse(parse.NewInputString(source), js.Options{})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Module{Path: path, Source: source, AST: ast}, nil
}

// Code prints the module.
func (m *Module) Code() string {
	return m.AST.JSString()
}

// ParseIssue converts a syntax error returned by ParseModule into an Issue.
// It returns false for any other error.
func ParseIssue(path string, err error) (Issue, bool) {
	var perr *parse.Error
	if !errors.As(err, &perr) {
		return Issue{}, false
	}
	line, col, _ := perr.Position()
	issue := Issue{
		FromLinter: LinterName,
		Text:       "syntax error: " + perr.Message,
		Severity:   SeverityError,
		Pos:        IssuePos{Filename: path, Line: line, Column: col},
	}
	return issue, true
}

// TransformModule rewrites m in place and returns its code with the
// diagnostics turned into located issues. A module without stylesheet
// imports is returned as its original source.
func TransformModule(cwd string, m *Module, cfg Config, opts ...Option) (*FileResult, error) {
	injector, err := NewInjector(cwd, m.Path, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := injector.Rewrite(m.AST); err != nil {
		return nil, err
	}

	stats := injector.Stats()
	result := &FileResult{
		Path:    m.Path,
		Code:    m.Source,
		Changed: stats.SpecifiersRemoved > 0,
		Stats:   stats,
		Issues:  m.Locate(injector.Diagnostics()),
	}
	// untouched modules keep their original text, comments included
	if result.Changed {
		result.Code = m.Code()
	}
	return result, nil
}

// Locate attaches source positions to diagnostics.
func (m *Module) Locate(diags []Diagnostic) []Issue {
	if len(diags) == 0 {
		return nil
	}
	sites := scanSites(m.Source)
	lines := strings.Split(m.Source, "\n")

	issues := make([]Issue, 0, len(diags))
	for _, d := range diags {
		issue := Issue{
			FromLinter: LinterName,
			Text:       d.Message,
			Severity:   SeverityError,
			Pos:        IssuePos{Filename: m.Path},
		}
		if offsets := sites[siteKey{kind: d.Kind, binding: d.Binding}]; d.Site >= 0 && d.Site < len(offsets) {
			offset := offsets[d.Site]
			line, col, _ := parse.Position(strings.NewReader(m.Source), offset)
			issue.Pos.Line = line
			issue.Pos.Column = col
			issue.Pos.Offset = offset
			if line-1 < len(lines) {
				issue.SourceLines = []string{strings.TrimRight(lines[line-1], "\r")}
			}
		}
		issues = append(issues, issue)
	}
	return issues
}
