package cssmodules

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	modules "github.com/yacobolo/cssmodules/internal/cssmodules"
)

// TransformSource rewrites a single module held in memory. filename is
// resolved against cwd when relative. Syntax errors are returned as errors.
func TransformSource(cwd, filename string, src []byte, cfg Config) (*FileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(cwd, filename)
	}
	m, err := modules.ParseModule(filename, src)
	if err != nil {
		return nil, err
	}
	return modules.TransformModule(cwd, m, cfg)
}

// Transform rewrites every module matched by config.Paths. Files are
// processed concurrently, each with its own injector. Syntax errors and
// unsupported sites become issues; configuration and resolution failures
// abort the run.
func Transform(ctx context.Context, config TransformConfig) (*TransformResult, error) {
	if err := config.Module.Validate(); err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(config.WorkingDir)
	if err != nil {
		return nil, err
	}
	outputDir := config.OutputDir
	if outputDir != "" && !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workDir, outputDir)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	patterns := config.Paths
	if len(patterns) == 0 {
		patterns = DefaultPaths
	}
	filter := newFileFilter(workDir, outputDir, config.Exclude)
	files, stats, err := expandGlobPatterns(workDir, patterns, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to expand input patterns: %w", err)
	}
	logger.Debug("Discovered input files",
		"discovered", stats.FilesDiscovered, "scanned", stats.FilesScanned, "skipped", stats.FilesSkipped)

	opts := []modules.Option{modules.WithLogger(logger)}
	if config.Resolver != nil {
		opts = append(opts, modules.WithResolver(config.Resolver))
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*FileResult, len(files))
	written := make([]bool, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel := relativePath(workDir, file)
			result, parsed, err := transformFile(workDir, file, rel, config.Module, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			results[i] = result

			logger.Debug("Transformed module",
				"file", rel,
				"names", result.Stats.NamesInjected,
				"imports", result.Stats.ImportsRewritten,
				"issues", len(result.Issues))

			if outputDir == "" || !parsed || !isWithin(workDir, file) {
				return nil
			}
			result.OutputPath = filepath.Join(outputDir, rel)
			if err := writeOutput(result.OutputPath, result.Code); err != nil {
				return err
			}
			written[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &TransformResult{FilesScanned: len(files)}
	for i, result := range results {
		report.Files = append(report.Files, *result)
		report.Issues = append(report.Issues, result.Issues...)
		report.Stats.Add(result.Stats)
		if result.Changed {
			report.FilesChanged++
		}
		if written[i] {
			report.FilesWritten++
		} else if outputDir != "" && !isWithin(workDir, files[i]) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s is outside %s and was not written", files[i], workDir))
		}
	}
	modules.SortIssues(report.Issues)
	return report, nil
}

// transformFile reads and rewrites one file. Issue filenames are rel.
// parsed is false when the file has a syntax error, reported as an issue.
func transformFile(workDir, path, rel string, cfg Config, opts []modules.Option) (result *FileResult, parsed bool, err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read file: %w", err)
	}

	m, err := modules.ParseModule(path, src)
	if err != nil {
		issue, ok := modules.ParseIssue(rel, err)
		if !ok {
			return nil, false, err
		}
		issue.SourceLines = sourceLine(string(src), issue.Pos.Line)
		return &FileResult{Path: rel, Issues: []Issue{issue}}, false, nil
	}

	result, err = modules.TransformModule(workDir, m, cfg, opts...)
	if err != nil {
		return nil, false, err
	}
	result.Path = rel
	for i := range result.Issues {
		result.Issues[i].Pos.Filename = rel
	}
	return result, true, nil
}

// sourceLine returns the 1-based line of src, or nil when out of range
func sourceLine(src string, line int) []string {
	if line <= 0 {
		return nil
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return nil
	}
	return []string{strings.TrimRight(lines[line-1], "\r")}
}

func writeOutput(path, code string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return abs, nil
}
