package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/SaudiBrother/Audio-checker/configs"
)

// loadAndMergeConfig loads configuration from viper and an optional file,
// then overlays CLI flags. The merged result is validated before use.
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load base configuration: %w", err)
	}

	if ctx.ConfigFile != "" {
		config, err = configs.LoadConfigFromFile(ctx.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	mergeFlags(config, ctx)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// mergeFlags overlays explicit CLI flags onto the loaded configuration.
func mergeFlags(config *configs.Config, ctx *Context) {
	if ctx.TransformSize > 0 {
		config.Analysis.TransformSize = ctx.TransformSize
	}
	if ctx.CutoffThresholdDb != 0 {
		config.Analysis.CutoffThresholdDb = ctx.CutoffThresholdDb
	}
	if ctx.Concurrency > 0 {
		config.Batch.Concurrency = ctx.Concurrency
	}
	if ctx.SampleFormat != "" {
		config.Input.SampleFormat = ctx.SampleFormat
	}
	if ctx.SampleRate > 0 {
		config.Input.SampleRate = ctx.SampleRate
	}
	if ctx.Channels > 0 {
		config.Input.Channels = ctx.Channels
	}
	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}
	if ctx.IncludeFeatures {
		config.Output.IncludeFeatures = true
	}
	config.Verbose = config.Verbose || ctx.Verbose
}

// GenerateExampleConfig writes a fully populated example configuration file.
func GenerateExampleConfig(outputFile string) error {
	data, err := yaml.Marshal(configs.GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	dir := filepath.Dir(outputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("✅ Example configuration written to: %s\n", outputFile)
	return nil
}

// ValidateConfig validates a configuration file
func ValidateConfig(configFile string) error {
	config, err := configs.LoadConfigFromFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Printf("✅ Configuration is valid: %s\n", configFile)
	fmt.Printf("   - Transform size: %d\n", config.Analysis.TransformSize)
	fmt.Printf("   - Cutoff threshold: %.1f dB\n", config.Analysis.CutoffThresholdDb)
	fmt.Printf("   - Batch concurrency: %d\n", config.Batch.Concurrency)

	return nil
}
