package spectral

const (
	// rolloffSpanBins bounds how far past the cutoff the rolloff shape is
	// inspected.
	rolloffSpanBins = 50

	// minRolloffEvidenceBins is the minimum number of bins needed past the
	// cutoff to make a call at all.
	minRolloffEvidenceBins = 10

	// artificialSlopeDbPerBin separates brick-wall encoder filters from the
	// gradual rolloff of analog-originated material.
	artificialSlopeDbPerBin = -3.0
)

// detectArtificialRolloff reports whether the raw spectrum drops off past
// the cutoff bin steeply enough to look like an upsampling/transcoding
// filter. The per-bin slope toward each of the following bins is measured
// from the strongest raw bin in the cutoff's smoothing neighborhood, since
// the smoothed cutoff index can land a bin or two past the true edge.
func detectArtificialRolloff(binsDb []float64, cutoffBin int) bool {
	span := len(binsDb) - 1 - cutoffBin
	if span > rolloffSpanBins {
		span = rolloffSpanBins
	}
	if span < minRolloffEvidenceBins {
		return false
	}

	anchor := binsDb[cutoffBin]
	for j := cutoffBin - cutoffSmoothingRadius; j < cutoffBin; j++ {
		if j >= 0 && binsDb[j] > anchor {
			anchor = binsDb[j]
		}
	}

	sum := 0.0
	for i := 1; i <= span; i++ {
		sum += (binsDb[cutoffBin+i] - anchor) / float64(i)
	}
	return sum/float64(span) < artificialSlopeDbPerBin
}
