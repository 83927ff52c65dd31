// Package cssmodules rewrites JavaScript modules that import CSS Modules
// stylesheets so that class-name lookups become string literals.
//
// Every `import styles from "./Button.module.css"` is reduced to a bare
// side-effect import and every `styles.title`, `styles["title"]` or named
// binding is replaced by the scoped class name the stylesheet build emits
// for the same pattern.
//
// # Single module
//
//	result, err := cssmodules.TransformSource(cwd, "src/App.js", src, cssmodules.DefaultConfig())
//
// # Batch
//
//	result, err := cssmodules.Transform(ctx, cssmodules.TransformConfig{
//		Module:    cssmodules.DefaultConfig(),
//		Paths:     []string{"src/**/*.{js,mjs}"},
//		OutputDir: "dist",
//	})
//
// # CLI Tool
//
//	go install github.com/yacobolo/cssmodules/cmd/cssmodules@latest
package cssmodules

// Public API:
// - Transform(ctx, TransformConfig) (*TransformResult, error)
// - TransformSource(cwd, filename string, src []byte, cfg Config) (*FileResult, error)
// - Watch(ctx, TransformConfig, func(*TransformResult, error)) error
// - DetermineOutputFormat(requested string, quiet bool) OutputFormat
// - WriteOutput(w io.Writer, result *TransformResult, format OutputFormat, config ReportConfig) error
