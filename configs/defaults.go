package configs

import (
	"github.com/spf13/viper"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}

	// Spectral analysis defaults
	if !v.IsSet("analysis.transform_size") {
		v.Set("analysis.transform_size", 4096)
	}
	if !v.IsSet("analysis.cutoff_threshold_db") {
		v.Set("analysis.cutoff_threshold_db", -80.0)
	}
	if !v.IsSet("analysis.smoothing_factor") {
		v.Set("analysis.smoothing_factor", 0.8)
	}
	if !v.IsSet("analysis.window_seconds") {
		v.Set("analysis.window_seconds", 2.0)
	}

	// Batch defaults
	if !v.IsSet("batch.concurrency") {
		v.Set("batch.concurrency", 2)
	}

	// Input defaults
	if !v.IsSet("input.sample_format") {
		v.Set("input.sample_format", "s16le")
	}
	if !v.IsSet("input.sample_rate") {
		v.Set("input.sample_rate", 44100)
	}
	if !v.IsSet("input.channels") {
		v.Set("input.channels", 2)
	}

	// Output defaults
	if !v.IsSet("output.precision") {
		v.Set("output.precision", 2)
	}
	if !v.IsSet("output.include_features") {
		v.Set("output.include_features", false)
	}
}

// SetDefaults applies defaults onto the global viper instance
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		Analysis:     GetDefaultAnalysisConfig(),
		Batch:        GetDefaultBatchConfig(),
		Input:        GetDefaultInputConfig(),
		Output:       GetDefaultOutputConfig(),
	}
}

// GetDefaultAnalysisConfig returns default spectral analysis settings
func GetDefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		TransformSize:     4096,
		CutoffThresholdDb: -80.0,
		SmoothingFactor:   0.8,
		WindowSeconds:     2.0,
	}
}

// GetDefaultBatchConfig returns default batch scheduling settings
func GetDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Concurrency: 2,
	}
}

// GetDefaultInputConfig returns default raw PCM intake settings
func GetDefaultInputConfig() InputConfig {
	return InputConfig{
		SampleFormat: "s16le",
		SampleRate:   44100,
		Channels:     2,
	}
}

// GetDefaultOutputConfig returns default output formatting settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Precision:       2,
		IncludeFeatures: false,
	}
}
