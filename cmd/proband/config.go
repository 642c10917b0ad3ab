package main

import (
	"fmt"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/pkg/config"
)

// configCmd replaces the root pre-run so that an invalid file is reported
// by the subcommand instead of aborting before it runs.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validates a proband configuration file for syntax errors and invalid values.

Examples:
  proband config validate                     # Validates default config locations
  proband config validate -c proband.toml     # Validates specific file
  proband config validate -c .proband/proband.yaml`,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Shows the merged configuration from defaults and config file.

Examples:
  proband config show                 # Show effective config
  proband config show -c proband.toml # Show config from specific file`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfigCmd() (*config.LoadResult, error) {
	var opts []config.LoadOption
	if cfgFile != "" {
		opts = append(opts, config.WithPath(cfgFile))
	}
	return config.LoadConfig(opts...)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	result, err := loadConfigCmd()
	if err != nil {
		console().Error("Configuration validation failed: %v", err)
		return err
	}

	out := console()
	if result.Source != "" {
		out.Success("Configuration valid: %s", result.Source)
	} else {
		out.Warning("No config file found. Default configuration is valid.")
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	result, err := loadConfigCmd()
	if err != nil {
		return err
	}

	if result.Source != "" {
		fmt.Printf("# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Println("# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(*result.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(content))

	return nil
}
