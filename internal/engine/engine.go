package engine

import (
	"context"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/SaudiBrother/Audio-checker/configs"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/pcm"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/quality"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/spectral"
)

// Engine runs the spectral quality pipeline for one PCM buffer:
// transform, feature extraction, artifact detection, confidence scoring
// and quality classification. Engines hold no process-wide state; multiple
// independent instances are safe to construct.
type Engine struct {
	config    *configs.Config
	transform *spectral.Transform
	extractor *spectral.Extractor
	logger    logging.Logger
}

// Analysis bundles a verdict with the features behind it.
type Analysis struct {
	Verdict  *quality.Verdict   `json:"verdict"`
	Features *spectral.Features `json:"features,omitempty"`
	Elapsed  time.Duration      `json:"-"`
}

// NewEngine creates an analysis engine. Configuration is validated up
// front; an invalid configuration fails fast before anything is analyzed.
func NewEngine(config *configs.Config, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if config == nil {
		config = configs.GetDefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		config: config,
		transform: spectral.NewTransform(
			config.Analysis.TransformSize,
			config.Analysis.SmoothingFactor,
			config.Analysis.WindowSeconds,
			logger,
		),
		extractor: spectral.NewExtractor(config.Analysis.CutoffThresholdDb, logger),
		logger: logger.WithFields(logging.Fields{
			"component": "analysis_engine",
		}),
	}, nil
}

// Analyze runs the full pipeline and returns the verdict for one buffer.
// Deterministic: identical samples and configuration yield an identical
// verdict.
func (e *Engine) Analyze(ctx context.Context, buf *pcm.Buffer) (*quality.Verdict, error) {
	analysis, err := e.AnalyzeDetailed(ctx, buf)
	if err != nil {
		return nil, err
	}
	return analysis.Verdict, nil
}

// AnalyzeDetailed runs the full pipeline and returns the verdict together
// with the extracted features.
func (e *Engine) AnalyzeDetailed(ctx context.Context, buf *pcm.Buffer) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	spec, err := e.transform.Spectrum(buf)
	if err != nil {
		return nil, err
	}

	features := e.extractor.Extract(spec)
	verdict := quality.Classify(features)
	features.Confidence = verdict.Confidence

	elapsed := time.Since(start)

	e.logger.Debug("Analysis completed", logging.Fields{
		"duration_s":    buf.Duration().Seconds(),
		"cutoff_hz":     features.Cutoff.FrequencyHz,
		"quality_label": verdict.QualityLabel,
		"quality_score": verdict.QualityScore,
		"confidence":    verdict.Confidence,
		"is_upscaled":   verdict.IsUpscaled,
		"elapsed_ms":    elapsed.Milliseconds(),
	})

	return &Analysis{
		Verdict:  verdict,
		Features: features,
		Elapsed:  elapsed,
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() *configs.Config {
	return e.config
}
