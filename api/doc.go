// Package api exposes the analysis pipeline over HTTP.
//
//	POST /upload_audio   multipart/form-data, field "file"
//
// The body is the pipeline result: sound_class, transcription and
// detected_keywords on success, or error and code with the matching status.
package api
