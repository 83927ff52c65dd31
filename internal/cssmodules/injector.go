package cssmodules

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/yacobolo/cssmodules/internal/naming"
)

// DefaultCacheSize bounds the per-module memo of generated names.
const DefaultCacheSize = 512

// Option configures an Injector.
type Option func(*Injector)

// WithResolver replaces the lexical PathResolver.
func WithResolver(r Resolver) Option {
	return func(in *Injector) { in.resolver = r }
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(in *Injector) { in.logger = l }
}

// WithCacheSize sets the generated-name memo size.
func WithCacheSize(n int) Option {
	return func(in *Injector) { in.cacheSize = n }
}

type nameKey struct {
	source string
	local  string
}

type siteKey struct {
	kind    DiagnosticKind
	binding string
}

// Injector rewrites one module. It holds that module's import table and
// must not be reused for another module.
type Injector struct {
	path      string
	dir       string
	cfg       Config
	generator *naming.Generator
	resolver  Resolver
	logger    *slog.Logger
	cacheSize int
	names     *lru.Cache[nameKey, string]

	bindings    map[string]ResolvedImport
	sites       map[siteKey]int
	diagnostics []Diagnostic
	stats       Stats
	err         error
}

// NewInjector returns an Injector for the module at filePath. The context
// directory is cfg.Root, or cwd when Root is empty.
func NewInjector(cwd, filePath string, cfg Config, opts ...Option) (*Injector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	contextDir := cwd
	if cfg.Root != "" {
		contextDir = cfg.Root
		if !filepath.IsAbs(contextDir) {
			contextDir = filepath.Join(cwd, contextDir)
		}
	}

	generator, err := naming.New(cfg.GenerateScopedName, naming.Options{Context: contextDir, HashPrefix: cfg.HashPrefix})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	in := &Injector{
		path:      filePath,
		dir:       moduleDir(contextDir, filePath),
		cfg:       cfg,
		generator: generator,
		resolver:  PathResolver{},
		logger:    slog.Default(),
		cacheSize: DefaultCacheSize,
		bindings:  make(map[string]ResolvedImport),
		sites:     make(map[siteKey]int),
	}
	for _, opt := range opts {
		opt(in)
	}

	in.names, err = lru.New[nameKey, string](max(in.cacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("creating name cache: %w", err)
	}
	return in, nil
}

// moduleDir returns the directory imports are resolved against: the parent
// of a rooted module path, otherwise the parent of context joined with it.
func moduleDir(context, filePath string) string {
	if filepath.IsAbs(filePath) {
		return filepath.Dir(filePath)
	}
	return filepath.Dir(filepath.Join(context, filePath))
}

// Rewrite records every stylesheet import in ast, strips their specifiers
// and replaces tracked style accesses with string literals. The returned
// error is fatal; unsupported sites are reported through Diagnostics.
//
// Imports are hoisted, so all of them are recorded before any expression is
// visited.
func (in *Injector) Rewrite(ast *js.AST) error {
	for _, stmt := range ast.List {
		imp, ok := stmt.(*js.ImportStmt)
		if !ok {
			continue
		}
		if err := in.recordImport(imp); err != nil {
			return err
		}
	}

	if len(in.bindings) == 0 {
		return nil
	}

	in.stmts(ast.List)
	return in.err
}

// Imports returns the recorded import table.
func (in *Injector) Imports() map[string]ResolvedImport { return in.bindings }

// Diagnostics returns the unsupported sites found by Rewrite.
func (in *Injector) Diagnostics() []Diagnostic { return in.diagnostics }

// Stats returns rewrite counters.
func (in *Injector) Stats() Stats { return in.stats }

func (in *Injector) recordImport(imp *js.ImportStmt) error {
	// named bindings are counted in every import so diagnostic sites line
	// up with the source, stylesheet or not
	named := make(map[int]int, len(imp.List))
	for i, alias := range imp.List {
		if alias.Binding != nil && !isNamespace(alias) {
			named[i] = in.nextSite(DiagNamedImport, string(alias.Binding))
		}
	}

	source := unquote(imp.Module)
	if !strings.HasSuffix(source, in.cfg.CSSModulesSuffix) || !hasSpecifiers(imp) {
		return nil
	}

	resolved, err := in.resolver.Resolve(in.dir, source)
	if err == nil && !filepath.IsAbs(resolved) {
		err = &ResolveError{Dir: in.dir, Specifier: source, Resolved: resolved}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", in.path, err)
	}

	var kept []js.Alias
	if imp.Default != nil {
		in.bind(ResolvedImport{Local: string(imp.Default), Kind: KindDefault, Source: resolved})
	}
	for i, alias := range imp.List {
		if alias.Binding == nil {
			continue
		}
		local := string(alias.Binding)
		switch {
		case isNamespace(alias):
			in.bind(ResolvedImport{Local: local, Kind: KindNamespace, Source: resolved})
		case in.cfg.ForbidNamedImports:
			in.diagnose(DiagNamedImport, local, named[i], fmt.Sprintf(MsgNamedImport, local))
			kept = append(kept, alias)
		default:
			exported := local
			if alias.Name != nil {
				exported = unquote(alias.Name)
			}
			in.bind(ResolvedImport{Local: local, Kind: KindNamed, Exported: exported, Source: resolved})
		}
	}

	imp.Default = nil
	imp.List = kept
	if len(kept) == 0 {
		in.stats.ImportsRewritten++
	}

	in.logger.Debug("Recorded stylesheet import",
		slog.String("file", in.path),
		slog.String("source", source),
		slog.String("resolved", resolved))
	return nil
}

func (in *Injector) bind(imp ResolvedImport) {
	in.bindings[imp.Local] = imp
	in.stats.SpecifiersRemoved++
}

func (in *Injector) nextSite(kind DiagnosticKind, binding string) int {
	key := siteKey{kind: kind, binding: binding}
	site := in.sites[key]
	in.sites[key] = site + 1
	return site
}

func (in *Injector) diagnose(kind DiagnosticKind, binding string, site int, msg string) {
	in.diagnostics = append(in.diagnostics, Diagnostic{Kind: kind, Binding: binding, Message: msg, Site: site})
	in.stats.Diagnostics++
}

// scopedName returns the memoized generated name for local in source.
func (in *Injector) scopedName(local, source string) (string, error) {
	key := nameKey{source: source, local: local}
	if name, ok := in.names.Get(key); ok {
		return name, nil
	}
	name, err := in.generator.Generate(local, source)
	if err != nil {
		return "", fmt.Errorf("%s: %w", in.path, err)
	}
	in.names.Add(key, name)
	return name, nil
}

func hasSpecifiers(imp *js.ImportStmt) bool {
	if imp.Default != nil {
		return true
	}
	for _, alias := range imp.List {
		if alias.Binding != nil {
			return true
		}
	}
	return false
}

func isNamespace(alias js.Alias) bool {
	return string(alias.Name) == "*"
}

// unquote returns the value of a string literal token with its escape
// sequences decoded. Malformed escapes are kept as written.
func unquote(b []byte) string {
	if len(b) < 2 || (b[0] != '"' && b[0] != '\'') || b[len(b)-1] != b[0] {
		return string(b)
	}
	s := string(b[1 : len(b)-1])
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			i++
			continue
		}
		r, n := unescape(s[i+1:])
		if n == 0 {
			sb.WriteByte(s[i])
			i++
			continue
		}
		if r >= 0 {
			sb.WriteRune(r)
		}
		i += 1 + n
	}
	return sb.String()
}

// unescape decodes the escape sequence following a backslash. It returns
// the rune and the bytes consumed; r is -1 for a line continuation and n
// is 0 when the sequence is malformed.
func unescape(s string) (r rune, n int) {
	switch s[0] {
	case 'n':
		return '\n', 1
	case 't':
		return '\t', 1
	case 'r':
		return '\r', 1
	case 'b':
		return '\b', 1
	case 'f':
		return '\f', 1
	case 'v':
		return '\v', 1
	case '0':
		if len(s) > 1 && s[1] >= '0' && s[1] <= '9' {
			return 0, 0
		}
		return 0, 1
	case '\r':
		if len(s) > 1 && s[1] == '\n' {
			return -1, 2
		}
		return -1, 1
	case '\n':
		return -1, 1
	case 'x':
		if v, ok := parseHex(s[1:min(3, len(s))], 2); ok {
			return rune(v), 3
		}
		return 0, 0
	case 'u':
		r, n := unescapeUnicode(s)
		if n == 0 || !utf16.IsSurrogate(r) {
			return r, n
		}
		// surrogate pair written as two escapes
		if strings.HasPrefix(s[n:], `\u`) {
			if lo, m := unescapeUnicode(s[n+1:]); m > 0 {
				if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
					return pair, n + 1 + m
				}
			}
		}
		return utf8.RuneError, n
	default:
		r, size := utf8.DecodeRuneInString(s)
		if r == '\u2028' || r == '\u2029' {
			return -1, size
		}
		return r, size
	}
}

// unescapeUnicode decodes `uXXXX` or `u{X...}` at the start of s.
func unescapeUnicode(s string) (rune, int) {
	if len(s) > 1 && s[1] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 3 {
			return 0, 0
		}
		v, ok := parseHex(s[2:end], end-2)
		if !ok || v > unicode.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if v, ok := parseHex(s[1:min(5, len(s))], 4); ok {
		return rune(v), 5
	}
	return 0, 0
}

func parseHex(s string, digits int) (uint64, bool) {
	if len(s) != digits || digits > 8 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	return v, err == nil
}
