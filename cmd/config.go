package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SaudiBrother/Audio-checker/configs"
	"github.com/SaudiBrother/Audio-checker/internal/app"
)

// configCmd groups configuration helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

// configShowCmd displays the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration values",
	Long: `Load the configuration and display all effective values.

Useful for verifying that a YAML file and environment variables are being
parsed the way you expect.

Examples:
  # Show effective defaults
  audio-checker config show

  # Show with a specific config file
  audio-checker --config /path/to/config.yaml config show`,
	RunE: runConfigShow,
}

// configValidateCmd validates a configuration file
var configValidateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ValidateConfig(args[0])
	},
}

// configInitCmd writes an example configuration file
var configInitCmd = &cobra.Command{
	Use:   "init <output-file>",
	Short: "Write an example configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.GenerateExampleConfig(args[0])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println("AUDIO CHECKER CONFIGURATION")
	fmt.Println(strings.Repeat("=", 80))

	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection("APPLICATION SETTINGS")
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Output Format", config.OutputFormat)

	printSection("ANALYSIS")
	printKeyValue("Transform Size", fmt.Sprintf("%d", config.Analysis.TransformSize))
	printKeyValue("Cutoff Threshold", fmt.Sprintf("%.1f dB", config.Analysis.CutoffThresholdDb))
	printKeyValue("Smoothing Factor", fmt.Sprintf("%.2f", config.Analysis.SmoothingFactor))
	printKeyValue("Window Seconds", fmt.Sprintf("%.1f", config.Analysis.WindowSeconds))

	printSection("BATCH")
	printKeyValue("Concurrency", fmt.Sprintf("%d", config.Batch.Concurrency))

	printSection("INPUT")
	printKeyValue("Sample Format", config.Input.SampleFormat)
	printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", config.Input.SampleRate))
	printKeyValue("Channels", fmt.Sprintf("%d", config.Input.Channels))

	printSection("OUTPUT")
	printKeyValue("Precision", fmt.Sprintf("%d", config.Output.Precision))
	printKeyValue("Include Features", fmt.Sprintf("%t", config.Output.IncludeFeatures))

	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println("CONFIGURATION IS VALID")
	fmt.Println(strings.Repeat("=", 80))

	return nil
}

func printSection(title string) {
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func printKeyValue(key, value string) {
	if value == "" {
		fmt.Printf("%-35s\n", key)
	} else {
		fmt.Printf("%-35s %s\n", key+":", value)
	}
}
