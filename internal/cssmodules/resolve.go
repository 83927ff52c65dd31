package cssmodules

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnresolved is wrapped by ResolveError.
var ErrUnresolved = errors.New("import source does not resolve to an absolute path")

// Resolver maps an import specifier, seen in a module living in dir, to
// the stylesheet path used for hashing.
type Resolver interface {
	Resolve(dir, specifier string) (string, error)
}

// PathResolver resolves specifiers lexically against the module directory.
// Nothing is read from disk.
type PathResolver struct{}

// Resolve joins specifier onto dir and cleans the result. The result must
// be absolute.
func (PathResolver) Resolve(dir, specifier string) (string, error) {
	resolved := filepath.Clean(specifier)
	if !filepath.IsAbs(specifier) {
		resolved = filepath.Join(dir, specifier)
	}
	if !filepath.IsAbs(resolved) {
		return "", &ResolveError{Dir: dir, Specifier: specifier, Resolved: resolved}
	}
	return resolved, nil
}

// ResolveError reports an import that did not resolve to an absolute path.
type ResolveError struct {
	Dir       string
	Specifier string
	Resolved  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving %q from %q: got %q: %v", e.Specifier, e.Dir, e.Resolved, ErrUnresolved)
}

func (e *ResolveError) Unwrap() error { return ErrUnresolved }
