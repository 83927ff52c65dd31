package cssmodules

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ScanStats tracks file discovery statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files kept for rewriting
	FilesSkipped    int // Files skipped by the filters
}

// fileFilter decides which discovered files are skipped
type fileFilter struct {
	workDir   string
	outputDir string // absolute, "" when outputs stay in memory
	gitIgnore *ignore.GitIgnore
	exclude   []string
}

// newFileFilter loads workDir/.gitignore. A missing .gitignore is fine.
func newFileFilter(workDir, outputDir string, exclude []string) *fileFilter {
	f := &fileFilter{workDir: workDir, outputDir: outputDir, exclude: exclude}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(workDir, ".gitignore")); err == nil {
		f.gitIgnore = gi
	}
	return f
}

// shouldSkip reports whether path, an absolute file path, is excluded
//
// Layers, cheapest first:
// 1. Dependencies and minified bundles
// 2. Previous outputs
// 3. User excludes and .gitignore (only for paths inside workDir)
func (f *fileFilter) shouldSkip(path string) bool {
	if strings.HasSuffix(path, ".min.js") {
		return true
	}
	if slices.Contains(strings.Split(filepath.ToSlash(path), "/"), "node_modules") {
		return true
	}
	if f.outputDir != "" && isWithin(f.outputDir, path) {
		return true
	}

	if !isWithin(f.workDir, path) {
		return false
	}
	rel := filepath.ToSlash(relativePath(f.workDir, path))
	for _, pattern := range f.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return f.gitIgnore != nil && f.gitIgnore.MatchesPath(rel)
}

// isWithin reports whether path is dir or below it
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// expandGlobPatterns expands patterns relative to workDir into sorted,
// deduplicated absolute file paths and tracks statistics
func expandGlobPatterns(workDir string, patterns []string, filter *fileFilter) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(workDir, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if filter.shouldSkip(match) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	slices.Sort(allFiles)
	return allFiles, stats, nil
}

// relativePath returns path relative to workDir, or path itself when it
// lies outside workDir
func relativePath(workDir, path string) string {
	if !isWithin(workDir, path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
