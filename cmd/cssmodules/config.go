package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/cssmodules"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence:
// flags > env > .env file > config file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	envFile, _ := cmd.Flags().GetString("env-file")

	if err := loadConfigFromPath(configPath, envFile); err != nil {
		return err
	}

	// 4. CLI flags (highest precedence, only flags that were explicitly set)
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	configureLogging()
	return nil
}

// loadConfigFromPath loads the config file, the dotenv file and environment
// variables. It is separated from loadConfig to allow testing without a
// cobra command.
func loadConfigFromPath(configPath, envFile string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Dotenv file, never overriding variables already set
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	// 3. Environment variables (CSSMODULES_* prefix)
	if err := k.Load(env.Provider("CSSMODULES_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key:
// CSSMODULES_MODULE__HASH_PREFIX -> module.hash-prefix
// CSSMODULES_TRANSFORM__OUT_DIR -> transform.out-dir
// CSSMODULES_VERBOSE -> verbose
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "CSSMODULES_"))
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ReplaceAll(s, "_", "-")
}

// configureLogging installs the default slog handler on stderr
func configureLogging() {
	level := slog.LevelWarn
	if getBoolWithFallback("verbose", "verbose", false) {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// buildModuleConfig constructs the library's Config struct from koanf state.
func buildModuleConfig() cssmodules.Config {
	defaults := cssmodules.DefaultConfig()
	return cssmodules.Config{
		GenerateScopedName: getStringWithFallback("scoped-name", "module.generate-scoped-name", defaults.GenerateScopedName),
		HashPrefix:         getStringWithFallback("hash-prefix", "module.hash-prefix", defaults.HashPrefix),
		CSSModulesSuffix:   getStringWithFallback("suffix", "module.css-modules-suffix", defaults.CSSModulesSuffix),
		Root:               getStringWithFallback("root", "module.root", defaults.Root),
		ForbidNamedImports: getBoolWithFallback("forbid-named-imports", "module.forbid-named-imports", defaults.ForbidNamedImports),
	}
}

// buildTransformConfig constructs the library's TransformConfig struct from
// koanf state. Positional args replace the configured paths.
func buildTransformConfig(args []string) cssmodules.TransformConfig {
	var paths []string
	if len(args) > 0 {
		paths = args
	} else if p := k.Strings("transform.paths"); len(p) > 0 {
		paths = p
	} else {
		paths = cssmodules.DefaultPaths
	}

	var exclude []string
	if e := k.Strings("exclude"); len(e) > 0 {
		exclude = e
	} else {
		exclude = k.Strings("transform.exclude")
	}

	return cssmodules.TransformConfig{
		Module:     buildModuleConfig(),
		WorkingDir: getStringWithFallback("working-dir", "transform.working-dir", ""),
		Paths:      paths,
		Exclude:    exclude,
		OutputDir:  getStringWithFallback("out-dir", "transform.out-dir", cssmodules.DefaultOutputDir),
		Workers:    getIntWithFallback("workers", "transform.workers", 0),
		Debounce:   getDurationWithFallback("debounce", "transform.debounce", cssmodules.DefaultDebounce),
		Logger:     slog.Default(),
	}
}

// buildReportConfig constructs the reporter configuration from koanf state.
func buildReportConfig() cssmodules.ReportConfig {
	return cssmodules.ReportConfig{
		PrintIssuedLines: getBoolWithFallback("print-lines", "transform.print-lines", true),
		PrintLinterName:  getBoolWithFallback("print-linter-name", "transform.print-linter-name", true),
		UseColors:        getBoolWithFallback("color", "color", false),
		Verbose:          getBoolWithFallback("verbose", "verbose", false),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
