package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

const (
	wavFormatPCM  = 1
	wavHeaderSize = 44
)

// errNotCanonicalWAV marks a valid WAV whose layout needs resampling.
var errNotCanonicalWAV = fmt.Errorf("wav is not 16 kHz mono pcm16")

// decodeWAV decodes r in-process when it is already canonical. A valid WAV
// with another layout returns errNotCanonicalWAV.
func decodeWAV(r io.ReadSeeker) (CanonicalAudio, error) {
	d := wav.NewDecoder(r)
	// Not IsValidFile: a zero-length data chunk is empty audio, not an error.
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return CanonicalAudio{}, fmt.Errorf("read wav header: %w", err)
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return CanonicalAudio{}, fmt.Errorf("invalid wav header")
	}
	if d.SampleRate != SampleRate || d.NumChans != 1 || d.BitDepth != 16 || d.WavAudioFormat != wavFormatPCM {
		return CanonicalAudio{}, errNotCanonicalWAV
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return CanonicalAudio{}, fmt.Errorf("read wav samples: %w", err)
	}
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / 32768
	}
	return CanonicalAudio{Samples: samples, SampleRate: SampleRate}, nil
}

// EncodeWAV writes a as a 16-bit PCM mono WAV stream.
func EncodeWAV(w io.Writer, a CanonicalAudio) error {
	rate := a.SampleRate
	if rate <= 0 {
		rate = SampleRate
	}
	dataSize := uint32(len(a.Samples) * 2)

	bw := bufio.NewWriter(w)
	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(wavHeaderSize - 8 + dataSize),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(wavFormatPCM),
		uint16(1),
		uint32(rate),
		uint32(rate * 2),
		uint16(2),
		uint16(16),
		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, field := range header {
		if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("write wav header: %w", err)
		}
	}

	var frame [2]byte
	for _, s := range a.Samples {
		binary.LittleEndian.PutUint16(frame[:], uint16(toPCM16(s)))
		if _, err := bw.Write(frame[:]); err != nil {
			return fmt.Errorf("write wav samples: %w", err)
		}
	}
	return bw.Flush()
}
