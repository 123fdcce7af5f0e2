package pcm

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/common"
)

// SampleFormat identifies the raw sample encoding of a PCM dump.
type SampleFormat string

const (
	FormatS16LE SampleFormat = "s16le"
	FormatF32LE SampleFormat = "f32le"
	FormatF64LE SampleFormat = "f64le"
)

// ParseSampleFormat validates a sample format name.
func ParseSampleFormat(name string) (SampleFormat, error) {
	switch SampleFormat(name) {
	case FormatS16LE, FormatF32LE, FormatF64LE:
		return SampleFormat(name), nil
	default:
		return "", common.NewAnalysisError(common.ErrCodeInvalidConfig,
			"unsupported sample format: "+name, nil)
	}
}

// ReadRaw reads a headerless little-endian PCM dump into a Buffer.
// Truncated or misaligned input surfaces as DECODE_FAILED.
func ReadRaw(r io.Reader, format SampleFormat, channels, sampleRate int) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
			"failed to read PCM data", err)
	}

	var samples []float64
	switch format {
	case FormatS16LE:
		samples, err = decodeS16(data)
	case FormatF32LE:
		samples, err = decodeF32(data)
	case FormatF64LE:
		samples, err = decodeF64(data)
	default:
		return nil, common.NewAnalysisError(common.ErrCodeInvalidConfig,
			"unsupported sample format: "+string(format), nil)
	}
	if err != nil {
		return nil, err
	}

	return NewBuffer(samples, channels, sampleRate)
}

func decodeS16(data []byte) ([]float64, error) {
	if len(data)%2 != 0 {
		return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
			"buffer size not aligned for 16-bit samples", nil)
	}
	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(v) / 32768.0
	}
	return samples, nil
}

func decodeF32(data []byte) ([]float64, error) {
	if len(data)%4 != 0 {
		return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
			"buffer size not aligned for 32-bit samples", nil)
	}
	samples := make([]float64, len(data)/4)
	for i := range samples {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
				"non-finite sample value in float32 PCM", nil)
		}
		samples[i] = float64(v)
	}
	return samples, nil
}

func decodeF64(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
			"buffer size not aligned for 64-bit samples", nil)
	}
	samples := make([]float64, len(data)/8)
	for i := range samples {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, common.NewAnalysisError(common.ErrCodeDecodeFailure,
				"non-finite sample value in float64 PCM", nil)
		}
		samples[i] = v
	}
	return samples, nil
}
