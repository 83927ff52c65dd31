package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = ".cssmodules.yaml"

var rootCmd = &cobra.Command{
	Use:   "cssmodules",
	Short: "Inline CSS Modules class names into JavaScript sources",
	Long: `Rewrite imports of CSS Modules stylesheets so that every class lookup
becomes the scoped class name the stylesheet build generates.
styles.title becomes "Button-module__title___x1Y2z" and the import is kept
only for its side effect.`,
	// Default behavior: run transform when no subcommand is given.
	// loadConfig is called here because PreRunE of transformCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runTransform(cmd, args)
	},
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", defaultConfigPath, "Config file path")
	pf.String("env-file", ".env", "Dotenv file loaded into the environment")

	// Module flags are shared by transform and name
	pf.String("scoped-name", "", "Class name pattern (default \"[hash:base64]\")")
	pf.String("hash-prefix", "", "Prefix mixed into every hashed name")
	pf.String("suffix", "", "Stylesheet import suffix (default \".css\")")
	pf.String("root", "", "Context directory for relative paths (default: working directory)")
	pf.Bool("forbid-named-imports", false, "Report named imports from stylesheets instead of rewriting them")

	// the transform flags are also registered on root, which runs transform
	registerTransformFlags(rootCmd)

	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
