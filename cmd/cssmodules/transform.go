package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yacobolo/cssmodules"
)

var transformCmd = &cobra.Command{
	Use:     "transform [paths...]",
	Aliases: []string{"tf"},
	Short:   "Rewrite CSS Modules imports in JavaScript sources",
	Long: `Rewrite every module matched by the given glob patterns and write the
results under the output directory, mirroring the source tree.
Unsupported lookups like styles[name] are reported golangci-lint style.`,
	Args: cobra.ArbitraryArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runTransform,
}

// exitCodeError ends the process with code and no further message
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func init() {
	registerTransformFlags(transformCmd)
}

func registerTransformFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("working-dir", "C", "", "Base directory for paths and outputs (default: current directory)")
	f.StringP("out-dir", "o", cssmodules.DefaultOutputDir, "Output directory, relative to the working directory")
	f.Bool("in-memory", false, "Do not write outputs (report only)")
	f.StringSlice("exclude", nil, "Glob patterns of files to skip")
	f.Int("workers", 0, "Concurrent workers (0 = number of CPUs)")
	f.Bool("watch", false, "Re-run whenever a source file changes")
	f.Duration("debounce", cssmodules.DefaultDebounce, "Quiet period before a watch re-run")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (cssmodules) suffix on issues")
}

func runTransform(cmd *cobra.Command, args []string) error {
	config := buildTransformConfig(args)
	if getBoolWithFallback("in-memory", "transform.in-memory", false) {
		config.OutputDir = ""
	}
	reportConfig := buildReportConfig()

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "transform.output-format", "")
	format := cssmodules.DetermineOutputFormat(outputFormat, quiet)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if getBoolWithFallback("watch", "transform.watch", false) {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cssmodules.Watch(ctx, config, func(result *cssmodules.TransformResult, err error) {
			if err != nil {
				slog.Error("Transform failed", "error", err)
				return
			}
			if !quiet {
				if err := cssmodules.WriteOutput(cmd.OutOrStdout(), result, format, reportConfig); err != nil {
					slog.Error("Writing report failed", "error", err)
				}
			}
		})
	}

	result, err := cssmodules.Transform(ctx, config)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}

	if !quiet {
		if err := cssmodules.WriteOutput(cmd.OutOrStdout(), result, format, reportConfig); err != nil {
			return err
		}
	}

	// only errors fail the run
	if result.ErrorCount() > 0 {
		return &exitCodeError{code: 1}
	}
	return nil
}

// exitCode returns the process exit code for err and whether a message
// should be printed
func exitCode(err error) (int, bool) {
	var ec *exitCodeError
	if errors.As(err, &ec) {
		return ec.code, false
	}
	return 1, true
}
