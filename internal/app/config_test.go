package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaudiBrother/Audio-checker/configs"
)

func TestMergeFlagsOverridesConfig(t *testing.T) {
	cfg := configs.GetDefaultConfig()
	ctx := &Context{
		TransformSize:     8192,
		CutoffThresholdDb: -75,
		Concurrency:       8,
		SampleFormat:      "f32le",
		SampleRate:        48000,
		Channels:          1,
		OutputFormat:      "yaml",
		IncludeFeatures:   true,
	}

	mergeFlags(cfg, ctx)

	assert.Equal(t, 8192, cfg.Analysis.TransformSize)
	assert.Equal(t, -75.0, cfg.Analysis.CutoffThresholdDb)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "f32le", cfg.Input.SampleFormat)
	assert.Equal(t, 48000, cfg.Input.SampleRate)
	assert.Equal(t, 1, cfg.Input.Channels)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.True(t, cfg.Output.IncludeFeatures)
}

func TestMergeFlagsKeepsDefaultsWhenUnset(t *testing.T) {
	cfg := configs.GetDefaultConfig()
	mergeFlags(cfg, &Context{})

	assert.Equal(t, configs.GetDefaultConfig(), cfg)
}

func TestGenerateExampleConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, GenerateExampleConfig(path))

	cfg, err := configs.LoadConfigFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, configs.GetDefaultConfig(), cfg)
}
