package classification

import (
	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/provider"
)

// ScoreMatrix holds per-frame class scores: ScoreMatrix[frame][class].
type ScoreMatrix [][]float32

// Frames returns the number of frames.
func (m ScoreMatrix) Frames() int { return len(m) }

// Provider is a sound-event model backend.
type Provider = provider.RequestResponse[audio.CanonicalAudio, ScoreMatrix]

// Result is the selected label.
type Result struct {
	Label string  `json:"label"`
	Index int     `json:"index"`
	Score float32 `json:"score"`
}
