package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify promptforge configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/promptforge/config.yaml
Project-specific overrides can be placed in .promptforge.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	// Mask API key if set
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("generator.backend: %s\n", cfg.Generator.Backend)
	fmt.Printf("generator.model: %s\n", cfg.Generator.Model)
	fmt.Printf("generator.max_tokens: %d\n", cfg.Generator.MaxTokens)
	fmt.Printf("generator.use_aws_bedrock: %t\n", cfg.Generator.UseAWSBedrock)
	fmt.Printf("generator.aws_region: %s\n", cfg.Generator.AWSRegion)
	fmt.Printf("generator.aws_profile: %s\n", cfg.Generator.AWSProfile)
	fmt.Printf("recursive.max_recursion_depth: %d\n", cfg.Recursive.MaxRecursionDepth)
	fmt.Printf("recursive.enable_parallel_processing: %t\n", cfg.Recursive.EnableParallelProcessing)
	fmt.Printf("recursive.min_subtask_complexity: %g\n", cfg.Recursive.MinSubtaskComplexity)
	fmt.Printf("recursive.composition_strategy: %s\n", cfg.Recursive.CompositionStrategy)
	fmt.Printf("recursive.enable_integration_validation: %t\n", cfg.Recursive.EnableIntegrationValidation)
	fmt.Printf("knowledge.db_path: %s\n", cfg.Knowledge.DBPath)
	fmt.Printf("debug.log_path: %s\n", cfg.Debug.LogPath)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "generator.backend":
		return cfg.Generator.Backend, nil
	case "generator.model":
		return cfg.Generator.Model, nil
	case "generator.max_tokens":
		return strconv.Itoa(cfg.Generator.MaxTokens), nil
	case "generator.use_aws_bedrock":
		return strconv.FormatBool(cfg.Generator.UseAWSBedrock), nil
	case "generator.aws_region":
		return cfg.Generator.AWSRegion, nil
	case "generator.aws_profile":
		return cfg.Generator.AWSProfile, nil
	case "recursive.max_recursion_depth":
		return strconv.Itoa(cfg.Recursive.MaxRecursionDepth), nil
	case "recursive.enable_parallel_processing":
		return strconv.FormatBool(cfg.Recursive.EnableParallelProcessing), nil
	case "recursive.min_subtask_complexity":
		return strconv.FormatFloat(cfg.Recursive.MinSubtaskComplexity, 'g', -1, 64), nil
	case "recursive.composition_strategy":
		return cfg.Recursive.CompositionStrategy, nil
	case "recursive.enable_integration_validation":
		return strconv.FormatBool(cfg.Recursive.EnableIntegrationValidation), nil
	case "knowledge.db_path":
		return cfg.Knowledge.DBPath, nil
	case "debug.log_path":
		return cfg.Debug.LogPath, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "generator.backend":
		if value != "template" && value != "claude" {
			return fmt.Errorf("invalid backend %q (want template or claude)", value)
		}
		cfg.Generator.Backend = value
	case "generator.model":
		cfg.Generator.Model = value
	case "generator.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		cfg.Generator.MaxTokens = n
	case "generator.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_aws_bedrock: %w", err)
		}
		cfg.Generator.UseAWSBedrock = b
	case "generator.aws_region":
		cfg.Generator.AWSRegion = value
	case "generator.aws_profile":
		cfg.Generator.AWSProfile = value
	case "recursive.max_recursion_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_recursion_depth: %w", err)
		}
		cfg.Recursive.MaxRecursionDepth = n
	case "recursive.enable_parallel_processing":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for enable_parallel_processing: %w", err)
		}
		cfg.Recursive.EnableParallelProcessing = b
	case "recursive.min_subtask_complexity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for min_subtask_complexity: %w", err)
		}
		cfg.Recursive.MinSubtaskComplexity = f
	case "recursive.composition_strategy":
		cfg.Recursive.CompositionStrategy = value
	case "recursive.enable_integration_validation":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for enable_integration_validation: %w", err)
		}
		cfg.Recursive.EnableIntegrationValidation = b
	case "knowledge.db_path":
		cfg.Knowledge.DBPath = value
	case "debug.log_path":
		cfg.Debug.LogPath = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
