// Package naming generates scoped class names from a naming pattern.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yacobolo/cssmodules/internal/interpolate"
)

var leadingInvalidRe = regexp.MustCompile(`^(-?[0-9]|--)`)

// Options configures a Generator.
type Options struct {
	// Context is the directory file paths are made relative to before
	// hashing. Empty means the process working directory.
	Context string
	// HashPrefix is mixed into every hashed seed.
	HashPrefix string
}

// DefaultOptions returns Options rooted at the working directory.
func DefaultOptions() Options {
	return Options{Context: workingDir()}
}

func workingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// Generator derives scoped names for (local name, file path) pairs. It is
// immutable and safe for concurrent use.
type Generator struct {
	pattern string
	opts    Options
}

// New returns a Generator for pattern. Hash placeholders naming an
// unsupported algorithm or encoding are rejected here.
func New(pattern string, opts Options) (*Generator, error) {
	if err := interpolate.Validate(pattern); err != nil {
		return nil, fmt.Errorf("invalid naming pattern %q: %w", pattern, err)
	}
	if opts.Context == "" {
		opts.Context = workingDir()
	}
	return &Generator{pattern: pattern, opts: opts}, nil
}

// Pattern returns the naming pattern.
func (g *Generator) Pattern() string { return g.pattern }

// Context returns the directory paths are hashed relative to.
func (g *Generator) Context() string { return g.opts.Context }

// Generate returns the scoped name for localName declared in filePath.
//
// The result is a pure function of the pattern, the context, the hash
// prefix, filePath and localName.
func (g *Generator) Generate(localName, filePath string) (string, error) {
	name := strings.ReplaceAll(g.pattern, "[local]", localName)

	relativePath, err := g.relativePath(filePath)
	if err != nil {
		return "", err
	}

	seed := g.opts.HashPrefix + relativePath + "\x00" + localName
	out, err := interpolate.Interpolate(name, interpolate.MetaFromPath(filePath), []byte(seed))
	if err != nil {
		// only reachable when localName itself carries a hash placeholder
		return "", fmt.Errorf("generating name for %q: %w", localName, err)
	}
	return Sanitize(out), nil
}

func (g *Generator) relativePath(filePath string) (string, error) {
	rel, err := filepath.Rel(g.opts.Context, filePath)
	if err != nil {
		if !filepath.IsAbs(filePath) {
			return "", fmt.Errorf("path %q is not relative to %q: %w", filePath, g.opts.Context, err)
		}
		rel = filePath
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/"), nil
}

// Sanitize makes name a valid CSS identifier. Runes outside [A-Za-z0-9_-]
// below U+00A0 and invalid UTF-8 bytes become "-"; a leading digit, "-"
// followed by a digit, or "--" gets an "_" prefix.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); {
		r, size := utf8.DecodeRuneInString(name[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteByte('-')
		case allowed(r):
			b.WriteString(name[i : i+size])
		default:
			b.WriteByte('-')
		}
		i += size
	}

	out := b.String()
	if leadingInvalidRe.MatchString(out) {
		return "_" + out
	}
	return out
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return r >= 0x00A0
}
