package spectral

// AnalysisSampleRate is the fixed internal analysis rate. Bin-to-frequency
// mapping always assumes 44.1 kHz material so cutoff thresholds stay
// comparable across inputs. This is a known accuracy limitation for
// higher-rate sources, kept deliberately: "fixing" it would shift every
// quality threshold.
const AnalysisSampleRate = 44100

// NyquistHz is the top of the analyzable band under the fixed rate.
const NyquistHz = float64(AnalysisSampleRate) / 2

// Spectrum is a single analysis frame: magnitudes in dB relative to full
// scale, one value per frequency bin. Produced once per analysis and never
// mutated afterwards.
type Spectrum struct {
	BinsDb           []float64 `json:"bins_db"`
	TransformSize    int       `json:"transform_size"`
	SourceSampleRate int       `json:"source_sample_rate"`
}

// Bins returns the number of frequency bins.
func (s *Spectrum) Bins() int {
	return len(s.BinsDb)
}

// FrequencyAt maps a bin index to its center frequency in Hz under the
// fixed analysis rate.
func (s *Spectrum) FrequencyAt(bin int) float64 {
	if len(s.BinsDb) < 2 {
		return 0
	}
	return float64(bin) / float64(len(s.BinsDb)-1) * NyquistHz
}

// Cutoff describes the effective bandwidth of the signal: the highest bin
// exceeding the energy threshold and whether the rolloff past it looks
// synthetic.
type Cutoff struct {
	FrequencyHz  float64 `json:"frequency_hz"`
	Bin          int     `json:"bin"`
	IsArtificial bool    `json:"is_artificial"`
	ThresholdDb  float64 `json:"threshold_db"`
}

// Peak is a local spectral maximum.
type Peak struct {
	Bin         int     `json:"bin"`
	FrequencyHz float64 `json:"frequency_hz"`
	MagnitudeDb float64 `json:"magnitude_db"`
}

// Features holds everything derived from one Spectrum.
type Features struct {
	Cutoff           Cutoff  `json:"cutoff"`
	DynamicRangeDb   float64 `json:"dynamic_range_db"`
	HFEnergyPct      float64 `json:"hf_energy_pct"`
	SpectralFlatness float64 `json:"spectral_flatness"`
	Peaks            []Peak  `json:"peaks"`
	Confidence       int     `json:"confidence"`
}
