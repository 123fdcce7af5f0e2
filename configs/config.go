package configs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/common"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" json:"output_format"`

	// Spectral analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" json:"analysis"`

	// Batch scheduling configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Raw PCM intake configuration
	Input InputConfig `mapstructure:"input" yaml:"input" json:"input"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// AnalysisConfig contains spectral analysis settings
type AnalysisConfig struct {
	TransformSize     int     `mapstructure:"transform_size" yaml:"transform_size" json:"transform_size"`
	CutoffThresholdDb float64 `mapstructure:"cutoff_threshold_db" yaml:"cutoff_threshold_db" json:"cutoff_threshold_db"`
	SmoothingFactor   float64 `mapstructure:"smoothing_factor" yaml:"smoothing_factor" json:"smoothing_factor"`
	WindowSeconds     float64 `mapstructure:"window_seconds" yaml:"window_seconds" json:"window_seconds"`
}

// BatchConfig contains batch scheduling settings
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
}

// InputConfig contains raw PCM intake settings
type InputConfig struct {
	SampleFormat string `mapstructure:"sample_format" yaml:"sample_format" json:"sample_format"`
	SampleRate   int    `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	Channels     int    `mapstructure:"channels" yaml:"channels" json:"channels"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision       int  `mapstructure:"precision" yaml:"precision" json:"precision"`
	IncludeFeatures bool `mapstructure:"include_features" yaml:"include_features" json:"include_features"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := GetDefaultConfig()

	if err := viper.Unmarshal(config); err != nil {
		return nil, common.NewAnalysisError(common.ErrCodeInvalidConfig,
			"unable to decode configuration", err)
	}

	return config, nil
}

// LoadConfigFromFile loads configuration from a YAML or JSON file. Unknown
// keys are rejected rather than silently ignored.
func LoadConfigFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read config file %s", filePath), err)
	}

	config := GetDefaultConfig()

	switch filepath.Ext(filePath) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(config); err != nil {
			return nil, common.NewAnalysisError(common.ErrCodeInvalidConfig,
				"failed to parse JSON config", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(config); err != nil {
			return nil, common.NewAnalysisError(common.ErrCodeInvalidConfig,
				"failed to parse YAML config", err)
		}
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	a := c.Analysis
	if a.TransformSize < 256 || a.TransformSize&(a.TransformSize-1) != 0 {
		return common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("transform size must be a power of two >= 256, got %d", a.TransformSize), nil)
	}
	if a.CutoffThresholdDb >= 0 {
		return common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("cutoff threshold must be negative dBFS, got %.1f", a.CutoffThresholdDb), nil)
	}
	if a.SmoothingFactor < 0 || a.SmoothingFactor >= 1 {
		return common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("smoothing factor must be in [0,1), got %.2f", a.SmoothingFactor), nil)
	}
	if a.WindowSeconds <= 0 {
		return common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("analysis window must be positive, got %.2fs", a.WindowSeconds), nil)
	}

	if c.Batch.Concurrency < 1 {
		return common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("batch concurrency must be at least 1, got %d", c.Batch.Concurrency), nil)
	}

	if c.Input.SampleRate <= 0 {
		return common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("input sample rate must be positive, got %d", c.Input.SampleRate), nil)
	}
	if c.Input.Channels < 1 {
		return common.NewAnalysisError(common.ErrCodeInvalidConfig,
			fmt.Sprintf("input channel count must be at least 1, got %d", c.Input.Channels), nil)
	}

	return nil
}
