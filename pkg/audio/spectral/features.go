package spectral

import (
	"math"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"
)

const (
	// cutoffSmoothingRadius is the moving-average radius used to suppress
	// single-bin noise before the cutoff scan.
	cutoffSmoothingRadius = 3

	// peakThresholdDb and peakRadius define local peak detection.
	peakThresholdDb = -70.0
	peakRadius      = 5
	maxPeaks        = 10

	// hfRegionStart places the high-frequency energy region at 80% of the
	// cutoff bin.
	hfRegionStart = 0.8
)

// Extractor derives bandwidth and confidence features from a spectrum.
type Extractor struct {
	cutoffThresholdDb float64
	logger            logging.Logger
}

// NewExtractor creates a feature extractor. cutoffThresholdDb is the energy
// threshold for the cutoff scan (default -80).
func NewExtractor(cutoffThresholdDb float64, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Extractor{
		cutoffThresholdDb: cutoffThresholdDb,
		logger: logger.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// Extract computes all features for one spectrum. Confidence is left at
// zero; the quality scorer fills it in from the other features.
func (e *Extractor) Extract(spec *Spectrum) *Features {
	smoothed := movingAverage(spec.BinsDb, cutoffSmoothingRadius)

	cutoffBin := 0
	for i, v := range smoothed {
		if v > e.cutoffThresholdDb {
			cutoffBin = i
		}
	}

	cutoffHz := 0.0
	if cutoffBin > 0 {
		cutoffHz = spec.FrequencyAt(cutoffBin)
	}

	features := &Features{
		Cutoff: Cutoff{
			FrequencyHz:  cutoffHz,
			Bin:          cutoffBin,
			IsArtificial: detectArtificialRolloff(spec.BinsDb, cutoffBin),
			ThresholdDb:  e.cutoffThresholdDb,
		},
		DynamicRangeDb:   dynamicRange(spec.BinsDb),
		HFEnergyPct:      hfEnergyPct(spec.BinsDb, cutoffBin),
		SpectralFlatness: spectralFlatness(spec.BinsDb),
		Peaks:            findPeaks(spec),
	}

	e.logger.Debug("Extracted spectral features", logging.Fields{
		"cutoff_hz":     features.Cutoff.FrequencyHz,
		"cutoff_bin":    features.Cutoff.Bin,
		"is_artificial": features.Cutoff.IsArtificial,
		"dynamic_range": features.DynamicRangeDb,
		"hf_energy_pct": features.HFEnergyPct,
		"flatness":      features.SpectralFlatness,
		"peak_count":    len(features.Peaks),
	})

	return features
}

// movingAverage applies a symmetric moving average with the given radius,
// clipping the window at the array edges.
func movingAverage(bins []float64, radius int) []float64 {
	out := make([]float64, len(bins))
	for i := range bins {
		lo := i - radius
		if lo < 0 {
			lo = 0
		}
		hi := i + radius
		if hi > len(bins)-1 {
			hi = len(bins) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += bins[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// dynamicRange is the spread between the loudest sub-full-scale bin and the
// quietest bin of the raw spectrum. Clipped spectra with no negative bins
// anchor the top at 0 dB.
func dynamicRange(bins []float64) float64 {
	if len(bins) == 0 {
		return 0
	}

	maxNeg := 0.0
	found := false
	minAll := bins[0]
	for _, v := range bins {
		if v < 0 && (!found || v > maxNeg) {
			maxNeg = v
			found = true
		}
		if v < minAll {
			minAll = v
		}
	}
	if !found {
		maxNeg = 0
	}
	return maxNeg - minAll
}

// hfEnergyPct is the share of total linear power above 80% of the cutoff
// bin. With no detected cutoff the region degenerates to everything above
// bin zero.
func hfEnergyPct(bins []float64, cutoffBin int) float64 {
	total := 0.0
	hf := 0.0
	start := hfRegionStart * float64(cutoffBin)

	for i, db := range bins {
		p := math.Pow(10, db/10)
		total += p
		if float64(i) > start {
			hf += p
		}
	}
	if total == 0 {
		return 0
	}
	return hf / total * 100
}

// spectralFlatness is the Wiener entropy: geometric over arithmetic mean of
// linear power. 1 means noise-like, near 0 means tonal.
func spectralFlatness(bins []float64) float64 {
	if len(bins) == 0 {
		return 0
	}

	power := make([]float64, len(bins))
	for i, db := range bins {
		power[i] = math.Pow(10, db/10)
	}

	mean := stat.Mean(power, nil)
	if mean == 0 {
		return 0
	}
	return stat.GeometricMean(power, nil) / mean
}

// findPeaks returns local maxima that strictly dominate every bin within
// peakRadius on both sides and exceed peakThresholdDb, in ascending bin
// order, capped at the first maxPeaks found.
func findPeaks(spec *Spectrum) []Peak {
	bins := spec.BinsDb
	var peaks []Peak

	for i := range bins {
		if bins[i] <= peakThresholdDb {
			continue
		}

		isPeak := true
		for j := i - peakRadius; j <= i+peakRadius; j++ {
			if j < 0 || j >= len(bins) || j == i {
				continue
			}
			if bins[j] >= bins[i] {
				isPeak = false
				break
			}
		}
		if !isPeak {
			continue
		}

		peaks = append(peaks, Peak{
			Bin:         i,
			FrequencyHz: spec.FrequencyAt(i),
			MagnitudeDb: bins[i],
		})
		if len(peaks) == maxPeaks {
			break
		}
	}
	return peaks
}
