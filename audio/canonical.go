package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// SampleRate is the rate every model in the pipeline expects.
const SampleRate = 16000

// CanonicalAudio is mono PCM at SampleRate with amplitudes in [-1, 1).
type CanonicalAudio struct {
	Samples    []float32
	SampleRate int
}

// Len returns the number of samples.
func (a CanonicalAudio) Len() int { return len(a.Samples) }

// IsEmpty reports whether there is nothing to analyze.
func (a CanonicalAudio) IsEmpty() bool { return len(a.Samples) == 0 }

// Duration returns the playback length.
func (a CanonicalAudio) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(a.Samples)) * time.Second / time.Duration(a.SampleRate)
}

// FromPCM16 converts little-endian signed 16-bit samples. A trailing odd
// byte is dropped.
func FromPCM16(raw []byte) CanonicalAudio {
	n := len(raw) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(v) / 32768
	}
	return CanonicalAudio{Samples: samples, SampleRate: SampleRate}
}

func toPCM16(s float32) int16 {
	v := math.Round(float64(s) * 32768)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
