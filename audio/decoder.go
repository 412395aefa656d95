package audio

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/process"
)

// Decoder loads a canonical-set file into CanonicalAudio.
type Decoder struct {
	runner Runner
	binary string
	log    *logger.Logger
}

// NewDecoder creates a Decoder that falls back to binary through runner.
func NewDecoder(runner Runner, binary string, log *logger.Logger) *Decoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Decoder{runner: runner, binary: binary, log: log.WithComponent("decoder")}
}

// DecodeArgs returns the ffmpeg arguments that stream path to stdout as raw
// 16 kHz mono s16le.
func DecodeArgs(path string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vn", "-ar", "16000", "-ac", "1",
		"-f", "s16le", "-c:a", "pcm_s16le",
		"pipe:1",
	}
}

// Load decodes path. Zero samples is not an error here; stages report
// EMPTY_AUDIO themselves. Decode failures are TRANSCODE_FAILED.
func (d *Decoder) Load(ctx context.Context, path, ext string) (CanonicalAudio, error) {
	if ext == "wav" {
		a, err := d.loadWAV(path)
		switch {
		case err == nil:
			return a, nil
		case !stderrors.Is(err, errNotCanonicalWAV):
			return CanonicalAudio{}, errors.TranscodeFailed(err)
		}
		d.log.WithContext(ctx).Debug("wav needs resampling, decoding with ffmpeg")
	}

	res, err := runFFmpeg(ctx, d.runner, process.Command{Binary: d.binary, Args: DecodeArgs(path)})
	if err != nil {
		return CanonicalAudio{}, err
	}
	return FromPCM16(res.Stdout), nil
}

func (d *Decoder) loadWAV(path string) (CanonicalAudio, error) {
	f, err := os.Open(path)
	if err != nil {
		return CanonicalAudio{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decodeWAV(f)
}
