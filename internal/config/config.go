// Package config handles configuration loading for promptforge.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/promptforge/promptforge/pkg/models"
)

// Config holds all configuration for promptforge.
type Config struct {
	Anthropic AnthropicConfig        `mapstructure:"anthropic"`
	Generator GeneratorConfig        `mapstructure:"generator"`
	Recursive models.RecursiveConfig `mapstructure:"recursive"`
	Knowledge KnowledgeConfig        `mapstructure:"knowledge"`
	Debug     DebugConfig            `mapstructure:"debug"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// GeneratorConfig selects and tunes the subtask content generator.
type GeneratorConfig struct {
	// Backend is the generator implementation: "template" or "claude".
	Backend string `mapstructure:"backend"`
	// Model is the Claude model identifier (claude backend only).
	Model string `mapstructure:"model"`
	// MaxTokens caps the tokens per generated prompt (claude backend only).
	MaxTokens int `mapstructure:"max_tokens"`
	// UseAWSBedrock routes Claude calls through AWS Bedrock.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the AWS shared config profile for Bedrock.
	AWSProfile string `mapstructure:"aws_profile"`
}

// KnowledgeConfig holds knowledge store settings.
type KnowledgeConfig struct {
	// DBPath overrides the default knowledge database location.
	DBPath string `mapstructure:"db_path"`
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	// LogPath enables file-based debug logging when set.
	LogPath string `mapstructure:"log_path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.promptforge.yaml in current directory or parent)
// 3. User config (~/.config/promptforge/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over the user config
	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("generator.backend", cfg.Generator.Backend)
	v.Set("generator.model", cfg.Generator.Model)
	v.Set("generator.max_tokens", cfg.Generator.MaxTokens)
	v.Set("generator.use_aws_bedrock", cfg.Generator.UseAWSBedrock)
	v.Set("generator.aws_region", cfg.Generator.AWSRegion)
	v.Set("generator.aws_profile", cfg.Generator.AWSProfile)
	v.Set("recursive.max_recursion_depth", cfg.Recursive.MaxRecursionDepth)
	v.Set("recursive.enable_parallel_processing", cfg.Recursive.EnableParallelProcessing)
	v.Set("recursive.min_subtask_complexity", cfg.Recursive.MinSubtaskComplexity)
	v.Set("recursive.composition_strategy", cfg.Recursive.CompositionStrategy)
	v.Set("recursive.enable_integration_validation", cfg.Recursive.EnableIntegrationValidation)
	v.Set("knowledge.db_path", cfg.Knowledge.DBPath)
	v.Set("debug.log_path", cfg.Debug.LogPath)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	defaults := models.DefaultRecursiveConfig()

	v.SetDefault("anthropic.api_key", "")

	v.SetDefault("generator.backend", "template")
	v.SetDefault("generator.model", "")
	v.SetDefault("generator.max_tokens", 4096)
	v.SetDefault("generator.use_aws_bedrock", false)
	v.SetDefault("generator.aws_region", "")
	v.SetDefault("generator.aws_profile", "")

	v.SetDefault("recursive.max_recursion_depth", defaults.MaxRecursionDepth)
	v.SetDefault("recursive.enable_parallel_processing", defaults.EnableParallelProcessing)
	v.SetDefault("recursive.min_subtask_complexity", defaults.MinSubtaskComplexity)
	v.SetDefault("recursive.composition_strategy", defaults.CompositionStrategy)
	v.SetDefault("recursive.enable_integration_validation", defaults.EnableIntegrationValidation)

	v.SetDefault("knowledge.db_path", "")
	v.SetDefault("debug.log_path", "")
}

// getUserConfigDir returns the XDG config directory for promptforge.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "promptforge")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "promptforge")
	}
	return filepath.Join(home, ".config", "promptforge")
}

// findProjectConfig searches for .promptforge.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".promptforge.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Backend:   "template",
			MaxTokens: 4096,
		},
		Recursive: models.DefaultRecursiveConfig(),
	}
}
