// Package transcription converts speech to text and scans the transcript
// for distress keywords.
//
// Backends implement Provider; transcription/whisper talks to a
// faster-whisper HTTP sidecar.
//
//	t := transcription.NewTranscriber(backend, cfg, keywords, log)
//	res, err := t.Transcribe(ctx, canonicalAudio)
//	// res.Text, res.Keywords
package transcription
