// Package cli implements the patchlint command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patchtools/patchlint/internal/commit"
	"github.com/patchtools/patchlint/internal/config"
	"github.com/patchtools/patchlint/internal/db"
	"github.com/patchtools/patchlint/internal/output"
	"github.com/patchtools/patchlint/internal/utils"
)

var (
	flagConfig   string
	flagOutput   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "patchlint",
	Short: "Check the commit-message structure of git format-patch files",
	Long: `patchlint parses email-formatted patches ('git format-patch' layout)
and checks that the commit message can be cleanly separated from the diff
and mapped to the files the patch touches.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagLogLevel != "" {
			utils.SetLevel(flagLogLevel)
		}
		output.SetMode(output.Mode(flagOutput))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (overrides .patchlint/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format (text|json)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug|info|warn|error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the effective configuration with flag overrides applied.
func loadConfig() (config.Config, error) {
	overrides := map[string]any{}
	if rootCmd.PersistentFlags().Changed("output") {
		overrides["output.format"] = flagOutput
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath:    flagConfig,
		FlagOverrides: overrides,
	})
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	output.SetMode(output.Mode(cfg.Output.Format))
	return cfg, nil
}

// openStore opens the run-history database when history is enabled.
// Returns nil without error when history is off.
func openStore(cfg config.Config) (*db.DB, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	if cfg.History.DatabasePath != "" {
		return db.Open(cfg.History.DatabasePath)
	}
	return db.OpenUserDB()
}

// buildValidator wires the configured commit-info hook into the default
// structural validator.
func buildValidator(cfg config.Config) (commit.Validator, error) {
	var hook commit.InfoHook
	if cfg.Hook.Command != "" {
		h, err := commit.CommandHook(cfg.Hook.Command)
		if err != nil {
			return nil, err
		}
		hook = h
	}
	return commit.NewStructuralValidator(hook), nil
}
