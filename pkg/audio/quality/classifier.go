package quality

import (
	"math"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/spectral"
)

// Tier is an ordered quality class by cutoff frequency.
type Tier int

const (
	TierUpscaled Tier = iota
	TierLowQuality
	TierModerate
	TierHighQuality
	TierLossless
)

// Tier frequency boundaries in Hz.
const (
	losslessMinHz = 20000.0
	highMinHz     = 18500.0
	moderateMinHz = 16000.0
	lowMinHz      = 14000.0
)

func (t Tier) String() string {
	switch t {
	case TierLossless:
		return "Lossless"
	case TierHighQuality:
		return "High Quality"
	case TierModerate:
		return "Moderate"
	case TierLowQuality:
		return "Low Quality"
	default:
		return "Fake/Upscaled"
	}
}

// Verdict is the terminal output of the engine for one item.
type Verdict struct {
	QualityLabel           string  `json:"quality_label"`
	QualityScore           int     `json:"quality_score"`
	Confidence             int     `json:"confidence"`
	IsUpscaled             bool    `json:"is_upscaled"`
	CutoffFrequencyHz      float64 `json:"cutoff_frequency_hz"`
	NormalizedFrequencyPct float64 `json:"normalized_frequency_pct"`
}

// Classify maps extracted features to a quality verdict. It is a pure
// function of its input: identical features always produce an identical
// verdict.
func Classify(f *spectral.Features) *Verdict {
	tier, score := tierScore(f.Cutoff.FrequencyHz)

	if f.HFEnergyPct > 5 {
		score += 5
	}
	if f.SpectralFlatness > 0.8 {
		score += 5
	}
	if f.DynamicRangeDb > 50 {
		score += 5
	}
	if f.Cutoff.IsArtificial {
		score -= 15
	}

	return &Verdict{
		QualityLabel:           tier.String(),
		QualityScore:           clamp(int(math.Round(score)), 0, 100),
		Confidence:             ScoreConfidence(f),
		IsUpscaled:             tier == TierUpscaled || f.Cutoff.IsArtificial,
		CutoffFrequencyHz:      f.Cutoff.FrequencyHz,
		NormalizedFrequencyPct: math.Min(100, f.Cutoff.FrequencyHz/spectral.NyquistHz*100),
	}
}

// tierScore returns the tier for a cutoff frequency and the base score
// interpolated linearly within the tier's sub-range.
func tierScore(cutoffHz float64) (Tier, float64) {
	switch {
	case cutoffHz >= losslessMinHz:
		return TierLossless, 100
	case cutoffHz >= highMinHz:
		return TierHighQuality, 85 + (cutoffHz-highMinHz)/1500*15
	case cutoffHz >= moderateMinHz:
		return TierModerate, 60 + (cutoffHz-moderateMinHz)/2500*25
	case cutoffHz >= lowMinHz:
		return TierLowQuality, 30 + (cutoffHz-lowMinHz)/2000*30
	default:
		return TierUpscaled, math.Max(10, cutoffHz/lowMinHz*30)
	}
}
