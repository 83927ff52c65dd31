package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssmodules.yaml config file",
	Long:  `Create a .cssmodules.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = defaultConfigPath
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

const defaultConfig = `# cssmodules configuration
# Precedence: flags > CSSMODULES_* env (.env included) > this file > defaults
# Env example: CSSMODULES_MODULE__HASH_PREFIX=app -> module.hash-prefix

verbose: false
color: false

# Class name generation, must match the stylesheet build
module:
  generate-scoped-name: "[hash:base64]"  # e.g. "[name]__[local]___[hash:base64:5]"
  hash-prefix: ""
  css-modules-suffix: ".css"             # e.g. ".module.css"
  root: ""                               # "" = working directory
  forbid-named-imports: false

# Batch settings
transform:
  paths:
    - "src/**/*.{js,mjs,cjs}"
  exclude: []
  out-dir: dist
  workers: 0                # 0 = number of CPUs
  debounce: 200ms           # watch mode quiet period
  output-format: issues     # issues | summary | full | json
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
