package spectral

import (
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/pcm"
)

const (
	// floorDb is the silence floor. Magnitudes are clamped here so that
	// all-zero input produces a finite spectrum instead of -Inf.
	floorDb = -100.0

	floorLinear = 1e-5 // 20*log10(1e-5) == floorDb
)

// Transform converts a PCM buffer segment into a dB-scaled magnitude
// spectrum of length transformSize/2. Successive FFT frames across the
// segment are exponentially smoothed to reduce frame-to-frame variance,
// the way an analyser node does.
type Transform struct {
	size          int
	smoothing     float64
	windowSeconds float64
	coeffs        []float64
	coeffSum      float64
	logger        logging.Logger
}

// NewTransform creates a transform. size must be a validated power of two;
// smoothing is the inter-frame smoothing factor in [0,1); windowSeconds
// bounds the analyzed segment length.
func NewTransform(size int, smoothing, windowSeconds float64, logger logging.Logger) *Transform {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = 1
	}
	window.Blackman(coeffs)

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return &Transform{
		size:          size,
		smoothing:     smoothing,
		windowSeconds: windowSeconds,
		coeffs:        coeffs,
		coeffSum:      sum,
		logger: logger.WithFields(logging.Fields{
			"component":      "transform",
			"transform_size": size,
		}),
	}
}

// Spectrum analyzes a PCM buffer and returns its magnitude spectrum.
// The analyzed segment is min(windowSeconds, bufferDuration) centered at
// the buffer midpoint. Deterministic for identical input.
func (t *Transform) Spectrum(buf *pcm.Buffer) (*Spectrum, error) {
	segment, err := buf.AnalysisSegment(t.windowSeconds)
	if err != nil {
		return nil, err
	}

	bins := t.size / 2
	smoothed := make([]float64, bins)
	frame := make([]float64, t.size)
	frames := 0

	for off := 0; off < len(segment); off += t.size {
		n := copy(frame, segment[off:])
		for i := n; i < t.size; i++ {
			frame[i] = 0
		}
		for i := 0; i < t.size; i++ {
			frame[i] *= t.coeffs[i]
		}

		coeffs := fft.FFTReal(frame)
		for k := 0; k < bins; k++ {
			mag := 2 * cmplx.Abs(coeffs[k]) / t.coeffSum
			smoothed[k] = t.smoothing*smoothed[k] + (1-t.smoothing)*mag
		}
		frames++
	}

	binsDb := make([]float64, bins)
	for k, mag := range smoothed {
		if mag < floorLinear {
			mag = floorLinear
		}
		binsDb[k] = 20 * math.Log10(mag)
	}

	t.logger.Debug("Computed magnitude spectrum", logging.Fields{
		"segment_samples": len(segment),
		"frames":          frames,
		"freq_bins":       bins,
	})

	return &Spectrum{
		BinsDb:           binsDb,
		TransformSize:    t.size,
		SourceSampleRate: buf.SampleRate,
	}, nil
}
