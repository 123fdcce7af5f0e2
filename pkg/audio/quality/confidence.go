package quality

import (
	"math"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/spectral"
)

const (
	lowDynamicRangeDb   = 30.0
	crowdedPeakCount    = 5
	penaltyLowDynamics  = 0.7
	penaltyArtificial   = 0.5
	penaltyCrowdedPeaks = 0.8
)

// ScoreConfidence combines features into a 0-100 confidence value for the
// verdict. Penalties are multiplicative so simultaneous issues compound
// toward zero instead of merely adding up.
func ScoreConfidence(f *spectral.Features) int {
	score := 100.0
	if f.DynamicRangeDb < lowDynamicRangeDb {
		score *= penaltyLowDynamics
	}
	if f.Cutoff.IsArtificial {
		score *= penaltyArtificial
	}
	if len(f.Peaks) > crowdedPeakCount {
		score *= penaltyCrowdedPeaks
	}
	return clamp(int(math.Round(score)), 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
