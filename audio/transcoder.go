package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/process"
)

// Transcoder normalizes non-canonical containers to 16 kHz mono PCM16 WAV.
type Transcoder struct {
	runner Runner
	binary string
	log    *logger.Logger
}

// NewTranscoder creates a Transcoder that invokes binary through runner.
func NewTranscoder(runner Runner, binary string, log *logger.Logger) *Transcoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Transcoder{runner: runner, binary: binary, log: log.WithComponent("transcoder")}
}

// TranscodeArgs returns the fixed ffmpeg argument list. -y makes reruns
// overwrite dst.
func TranscodeArgs(src, dst string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", src,
		"-vn", "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le",
		dst,
	}
}

// TargetPath is src with its extension replaced by .wav.
func TargetPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".wav"
}

// Normalize converts src to a canonical WAV and returns its path. Canonical
// inputs are returned unchanged. Failures are TRANSCODE_FAILED and are
// never retried.
func (t *Transcoder) Normalize(ctx context.Context, src, ext string) (string, error) {
	if !NeedsTranscode(ext) {
		return src, nil
	}
	dst := TargetPath(src)
	cmd := process.Command{Binary: t.binary, Args: TranscodeArgs(src, dst)}

	log := t.log.WithContext(ctx)
	log.Debug("transcoding", logger.Fields(logger.FieldExtension, ext, logger.FieldPath, filepath.Base(src)))

	if _, err := runFFmpeg(ctx, t.runner, cmd); err != nil {
		return "", err
	}

	info, err := os.Stat(dst)
	if err != nil {
		return "", errors.TranscodeFailed(fmt.Errorf("output missing: %w", err))
	}
	if info.Size() == 0 {
		return "", errors.TranscodeFailed(fmt.Errorf("output %s is empty", filepath.Base(dst)))
	}
	return dst, nil
}

// Ready reports whether the ffmpeg binary can be resolved.
func (t *Transcoder) Ready(ctx context.Context) bool {
	return t.runner.IsAvailable(ctx)
}
