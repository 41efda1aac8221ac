package cmd

import (
	"fmt"
	"os"

	"github.com/getlawrence/useserver/internal/config"
	"github.com/getlawrence/useserver/internal/linter"
	"github.com/getlawrence/useserver/internal/logger"
	"github.com/spf13/cobra"
)

// AppConfig holds all the shared configuration and dependencies
type AppConfig struct {
	Logger logger.Logger
}

// NewAppConfig creates a new configuration instance
func NewAppConfig(logger logger.Logger) *AppConfig {
	return &AppConfig{
		Logger: logger,
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the useserver configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default settings",
	Long: `Init writes the default configuration, with every built-in rule listed at
its default severity. The file is written as JSON when the path ends in .json
and as YAML otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
	configShowCmd.Flags().StringP("config", "c", "", "config file to load")
	configShowCmd.Flags().StringP("output", "o", config.FormatYAML, "output format (json, yaml)")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := ".useserver.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
	}

	cfg := config.DefaultConfig()
	for _, rule := range linter.DefaultRules().All() {
		cfg.Rules[rule.ID()] = config.RuleConfig{Severity: string(rule.Meta().DefaultSeverity)}
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	format, _ := cmd.Flags().GetString("output")
	if format != config.FormatJSON && format != config.FormatYAML {
		return fmt.Errorf("unsupported output format %q", format)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	loggerFrom(cmd).Debug("loaded config", "path", config.GetConfigPath(configPath))

	data, err := config.Marshal(cfg, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
