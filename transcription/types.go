package transcription

import (
	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/provider"
)

// Request holds parameters for a transcription call.
type Request struct {
	Audio audio.CanonicalAudio `json:"-"`
	// Language is a hint such as "ko". Empty lets the model detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's configured model.
	Model string `json:"model,omitempty"`
}

// Response is a backend's transcript.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is a time-aligned part of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Provider is a speech-to-text backend.
type Provider = provider.RequestResponse[Request, *Response]

// Result is the transcriber's output.
type Result struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
	Language string   `json:"language,omitempty"`
}
