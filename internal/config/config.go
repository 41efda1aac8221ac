package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getlawrence/useserver/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the useserver configuration
type Config struct {
	// Per-rule settings keyed by rule ID
	Rules map[string]RuleConfig `json:"rules" yaml:"rules"`

	// Analysis settings
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`

	// Output settings
	Output OutputConfig `json:"output" yaml:"output"`
}

// RuleConfig overrides a rule's defaults
type RuleConfig struct {
	// error, warning, info or off
	Severity string `json:"severity" yaml:"severity"`
}

// AnalysisConfig contains analysis-specific settings
type AnalysisConfig struct {
	// Directory names or doublestar patterns to exclude from analysis
	ExcludePaths []string `json:"exclude_paths" yaml:"exclude_paths"`

	// File extension to language mapping; empty uses the built-in table
	Extensions map[string]string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Number of files linted in parallel; 0 uses GOMAXPROCS
	Workers int `json:"workers" yaml:"workers"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	// Default output format
	Format string `json:"format" yaml:"format"`

	// Whether to colorize output
	Color bool `json:"color" yaml:"color"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Rules: map[string]RuleConfig{},
		Analysis: AnalysisConfig{
			ExcludePaths: []string{
				"node_modules",
				"dist",
				"build",
				"out",
				"coverage",
			},
			Workers: 0,
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  true,
		},
	}
}

// Validate checks severities, output format and worker count
func (c *Config) Validate() error {
	for id, rc := range c.Rules {
		if rc.Severity == "" {
			continue
		}
		if _, ok := domain.ParseSeverity(rc.Severity); !ok {
			return fmt.Errorf("%w: rule %s has unknown severity %q", ErrInvalidConfig, id, rc.Severity)
		}
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output.Format)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	for ext, lang := range c.Analysis.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, ext)
		}
		switch lang {
		case domain.LanguageJavaScript, domain.LanguageTypeScript, domain.LanguageTSX:
		default:
			return fmt.Errorf("%w: extension %s maps to unknown language %q", ErrInvalidConfig, ext, lang)
		}
	}
	return nil
}

// Severities returns the rule severity overrides set in the config
func (c *Config) Severities() map[string]domain.Severity {
	out := make(map[string]domain.Severity, len(c.Rules))
	for id, rc := range c.Rules {
		if sev, ok := domain.ParseSeverity(rc.Severity); ok {
			out[id] = sev
		}
	}
	return out
}

// LoadConfig loads configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	explicit := configPath != ""
	if !explicit {
		configPath = findConfigFile()
	}

	// If still no config file, return default
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isJSON(configPath) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves configuration to a file, as JSON for .json paths and YAML
// otherwise
func SaveConfig(config *Config, configPath string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config, formatFor(configPath))
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal encodes the config as JSON or YAML
func Marshal(config *Config, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if format == FormatJSON {
		data, err = json.MarshalIndent(config, "", "  ")
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

var configNames = []string{
	".useserver.yaml",
	".useserver.yml",
	".useserver.json",
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	// Current directory
	for _, candidate := range configNames {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	// Home directory
	homeDir, err := os.UserHomeDir()
	if err == nil {
		for _, name := range configNames {
			candidate := filepath.Join(homeDir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}

	return ""
}

// GetConfigPath returns the config file path to use
func GetConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	found := findConfigFile()
	if found != "" {
		return found
	}

	return configNames[0]
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func formatFor(path string) string {
	if isJSON(path) {
		return FormatJSON
	}
	return FormatYAML
}
