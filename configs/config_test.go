package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/common"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4096, cfg.Analysis.TransformSize)
	assert.Equal(t, -80.0, cfg.Analysis.CutoffThresholdDb)
	assert.Equal(t, 0.8, cfg.Analysis.SmoothingFactor)
	assert.Equal(t, 2.0, cfg.Analysis.WindowSeconds)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, "s16le", cfg.Input.SampleFormat)
}

func TestLoadConfigFromYAMLFile(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
analysis:
  transform_size: 8192
  cutoff_threshold_db: -75.0
batch:
  concurrency: 4
`)

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8192, cfg.Analysis.TransformSize)
	assert.Equal(t, -75.0, cfg.Analysis.CutoffThresholdDb)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	// Unspecified values keep their defaults
	assert.Equal(t, 0.8, cfg.Analysis.SmoothingFactor)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFileRejectsUnknownKeys(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
analysis:
  transform_size: 8192
  fft_overlap: 0.5
`)

	_, err := LoadConfigFromFile(path)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeInvalidConfig))
}

func TestLoadConfigFromJSONFile(t *testing.T) {
	path := writeTempConfig(t, "config.json",
		`{"analysis": {"transform_size": 2048}}`)

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.Analysis.TransformSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfigFromFile("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeInvalidConfig))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non power-of-two transform", func(c *Config) { c.Analysis.TransformSize = 1000 }},
		{"transform too small", func(c *Config) { c.Analysis.TransformSize = 128 }},
		{"positive cutoff threshold", func(c *Config) { c.Analysis.CutoffThresholdDb = 10 }},
		{"smoothing of one", func(c *Config) { c.Analysis.SmoothingFactor = 1.0 }},
		{"negative smoothing", func(c *Config) { c.Analysis.SmoothingFactor = -0.1 }},
		{"zero window", func(c *Config) { c.Analysis.WindowSeconds = 0 }},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }},
		{"zero sample rate", func(c *Config) { c.Input.SampleRate = 0 }},
		{"zero channels", func(c *Config) { c.Input.Channels = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, common.IsCode(err, common.ErrCodeInvalidConfig))
		})
	}
}
