package pcm

import (
	"time"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/common"
)

// Buffer holds decoded PCM audio. Samples are interleaved when the buffer
// carries more than one channel. The engine never mutates a buffer; it only
// reads a derived mono copy.
type Buffer struct {
	Samples    []float64 `json:"-"`
	Channels   int       `json:"channels"`
	SampleRate int       `json:"sample_rate"`
}

// NewBuffer creates a PCM buffer from interleaved samples.
func NewBuffer(samples []float64, channels, sampleRate int) (*Buffer, error) {
	if channels < 1 {
		return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
			"channel count must be at least 1", nil)
	}
	if sampleRate <= 0 {
		return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
			"sample rate must be positive", nil)
	}
	if len(samples)%channels != 0 {
		return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
			"sample count not aligned to channel count", nil)
	}
	return &Buffer{
		Samples:    samples,
		Channels:   channels,
		SampleRate: sampleRate,
	}, nil
}

// Frames returns the number of sample frames (per-channel samples).
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the buffer length in time.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// Mono returns a mono view of the buffer. Multi-channel audio is downmixed
// by averaging channels frame-wise; a single-channel buffer is returned
// as-is without copying.
func (b *Buffer) Mono() []float64 {
	if b.Channels == 1 {
		return b.Samples
	}

	frames := b.Frames()
	mono := make([]float64, frames)
	for frame := 0; frame < frames; frame++ {
		sum := 0.0
		for ch := 0; ch < b.Channels; ch++ {
			sum += b.Samples[frame*b.Channels+ch]
		}
		mono[frame] = sum / float64(b.Channels)
	}
	return mono
}

// AnalysisSegment selects the mono segment the transform analyzes: a window
// of min(maxSeconds, bufferDuration) centered at the buffer midpoint.
func (b *Buffer) AnalysisSegment(maxSeconds float64) ([]float64, error) {
	mono := b.Mono()
	if len(mono) == 0 {
		return nil, common.NewAnalysisError(common.ErrCodeInsufficientData,
			"empty PCM buffer", nil)
	}

	want := int(maxSeconds * float64(b.SampleRate))
	if want <= 0 || want > len(mono) {
		want = len(mono)
	}

	start := (len(mono) - want) / 2
	return mono[start : start+want], nil
}
