package pcm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/common"
)

func TestNewBufferValidation(t *testing.T) {
	_, err := NewBuffer([]float64{0, 0}, 0, 44100)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeDecodeFailure))

	_, err = NewBuffer([]float64{0, 0}, 2, 0)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeDecodeFailure))

	// Interleaved stereo needs an even sample count
	_, err = NewBuffer([]float64{0, 0, 0}, 2, 44100)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeDecodeFailure))
}

func TestBufferFramesAndDuration(t *testing.T) {
	buf, err := NewBuffer(make([]float64, 44100*2), 2, 44100)
	require.NoError(t, err)

	assert.Equal(t, 44100, buf.Frames())
	assert.Equal(t, time.Second, buf.Duration())
}

func TestMonoDownmixAverages(t *testing.T) {
	buf, err := NewBuffer([]float64{1, 0, 0.5, -0.5, -1, 1}, 2, 44100)
	require.NoError(t, err)

	mono := buf.Mono()
	require.Len(t, mono, 3)
	assert.InDelta(t, 0.5, mono[0], 1e-12)
	assert.InDelta(t, 0.0, mono[1], 1e-12)
	assert.InDelta(t, 0.0, mono[2], 1e-12)
}

func TestMonoPassThrough(t *testing.T) {
	samples := []float64{0.1, 0.2, 0.3}
	buf, err := NewBuffer(samples, 1, 44100)
	require.NoError(t, err)

	mono := buf.Mono()
	assert.Equal(t, &samples[0], &mono[0], "single channel should not copy")
}

func TestAnalysisSegmentCentered(t *testing.T) {
	// 4 seconds ramp at a tiny rate so indices are easy to reason about
	const rate = 100
	samples := make([]float64, 4*rate)
	for i := range samples {
		samples[i] = float64(i)
	}
	buf, err := NewBuffer(samples, 1, rate)
	require.NoError(t, err)

	segment, err := buf.AnalysisSegment(2.0)
	require.NoError(t, err)
	require.Len(t, segment, 2*rate)
	assert.Equal(t, float64(rate), segment[0], "segment should start at the 1s mark")
}

func TestAnalysisSegmentShortBuffer(t *testing.T) {
	buf, err := NewBuffer(make([]float64, 500), 1, 44100)
	require.NoError(t, err)

	segment, err := buf.AnalysisSegment(2.0)
	require.NoError(t, err)
	assert.Len(t, segment, 500, "short buffers are analyzed whole")
}

func TestAnalysisSegmentEmpty(t *testing.T) {
	buf, err := NewBuffer(nil, 1, 44100)
	require.NoError(t, err)

	_, err = buf.AnalysisSegment(2.0)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeInsufficientData))
}
