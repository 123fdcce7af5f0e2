package engine

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaudiBrother/Audio-checker/configs"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/common"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/pcm"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/spectral"
)

// noiseBuffer synthesizes two seconds of noise band-limited to maxHz by
// summing random-phase sines on a 50 Hz grid, seeded for repeatability.
func noiseBuffer(t *testing.T, maxHz float64) *pcm.Buffer {
	t.Helper()
	rng := rand.New(rand.NewSource(42))

	var components []float64
	for hz := 50.0; hz < maxHz; hz += 50 {
		components = append(components, hz)
	}
	phases := make([]float64, len(components))
	for i := range phases {
		phases[i] = rng.Float64() * 2 * math.Pi
	}

	n := 2 * spectral.AnalysisSampleRate
	samples := make([]float64, n)
	scale := 1 / math.Sqrt(float64(len(components)))
	for i := range samples {
		ts := float64(i) / spectral.AnalysisSampleRate
		var s float64
		for j, hz := range components {
			s += math.Sin(2*math.Pi*hz*ts + phases[j])
		}
		samples[i] = s * scale
	}

	buf, err := pcm.NewBuffer(samples, 1, spectral.AnalysisSampleRate)
	require.NoError(t, err)
	return buf
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := configs.GetDefaultConfig()
	cfg.Analysis.TransformSize = 1000

	_, err := NewEngine(cfg, nil)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeInvalidConfig))
}

func TestAnalyzeFullBandNoise(t *testing.T) {
	eng, err := NewEngine(configs.GetDefaultConfig(), nil)
	require.NoError(t, err)

	verdict, err := eng.Analyze(context.Background(), noiseBuffer(t, spectral.NyquistHz))
	require.NoError(t, err)

	assert.Equal(t, "Lossless", verdict.QualityLabel)
	assert.Equal(t, 100, verdict.QualityScore)
	assert.False(t, verdict.IsUpscaled)
}

func TestAnalyzeBandLimitedNoise(t *testing.T) {
	eng, err := NewEngine(configs.GetDefaultConfig(), nil)
	require.NoError(t, err)

	analysis, err := eng.AnalyzeDetailed(context.Background(), noiseBuffer(t, 11000))
	require.NoError(t, err)

	assert.Equal(t, "Fake/Upscaled", analysis.Verdict.QualityLabel)
	assert.True(t, analysis.Verdict.IsUpscaled)
	assert.InDelta(t, 11000, analysis.Features.Cutoff.FrequencyHz, 300)
}

func TestAnalyzeDeterministic(t *testing.T) {
	eng, err := NewEngine(configs.GetDefaultConfig(), nil)
	require.NoError(t, err)

	first, err := eng.Analyze(context.Background(), noiseBuffer(t, 16000))
	require.NoError(t, err)
	second, err := eng.Analyze(context.Background(), noiseBuffer(t, 16000))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeDetailedFillsConfidence(t *testing.T) {
	eng, err := NewEngine(configs.GetDefaultConfig(), nil)
	require.NoError(t, err)

	analysis, err := eng.AnalyzeDetailed(context.Background(), noiseBuffer(t, 16000))
	require.NoError(t, err)

	assert.Equal(t, analysis.Verdict.Confidence, analysis.Features.Confidence)
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	eng, err := NewEngine(configs.GetDefaultConfig(), nil)
	require.NoError(t, err)

	buf, err := pcm.NewBuffer(nil, 1, spectral.AnalysisSampleRate)
	require.NoError(t, err)

	_, err = eng.Analyze(context.Background(), buf)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeInsufficientData))
}

func TestAnalyzeCanceledContext(t *testing.T) {
	eng, err := NewEngine(configs.GetDefaultConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.Analyze(ctx, noiseBuffer(t, 16000))
	assert.ErrorIs(t, err, context.Canceled)
}
