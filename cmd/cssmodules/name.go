package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yacobolo/cssmodules"
	"github.com/yacobolo/cssmodules/internal/naming"
)

var nameCmd = &cobra.Command{
	Use:   "name <local>",
	Short: "Print the scoped class name of a local class name",
	Long: `Print the class name generated for <local> in the stylesheet --file,
using the configured pattern, hash prefix and root.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return errors.New("--file is required")
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		name, err := scopedName(buildModuleConfig(), cwd, file, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	nameCmd.Flags().StringP("file", "f", "", "Stylesheet path the class is defined in")
}

// scopedName generates the class name of local in the stylesheet file.
// Relative paths are resolved against cwd.
func scopedName(cfg cssmodules.Config, cwd, file, local string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	context := cwd
	if cfg.Root != "" {
		context = cfg.Root
	}
	if !filepath.IsAbs(context) {
		context = filepath.Join(cwd, context)
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(cwd, file)
	}

	generator, err := naming.New(cfg.GenerateScopedName, naming.Options{Context: context, HashPrefix: cfg.HashPrefix})
	if err != nil {
		return "", err
	}
	return generator.Generate(local, file)
}
