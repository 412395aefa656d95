package analysis

import (
	"net/http"

	"github.com/kbukum/soundguard/errors"
)

// Status is a run's overall outcome.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Result is the outcome of one pipeline run.
type Result struct {
	Status           Status
	SoundClass       string
	Score            float32
	Transcription    string
	DetectedKeywords []string
	// Err is set for failed and partial results.
	Err *errors.AppError

	hasClass      bool
	hasTranscript bool
}

// Response is the JSON body returned to the caller.
type Response map[string]any

// Failed builds a failed Result from any error.
func Failed(err error) *Result {
	return &Result{Status: StatusFailed, Err: errors.From(err)}
}

// Response renders the egress record. A successful run yields
// sound_class, transcription and detected_keywords. A failed run yields
// error and code. A partial run carries the surviving fields plus the error.
func (r *Result) Response() Response {
	body := Response{}
	if r.Status != StatusFailed {
		if r.hasClass {
			body["sound_class"] = r.SoundClass
		}
		if r.hasTranscript {
			keywords := r.DetectedKeywords
			if keywords == nil {
				keywords = []string{}
			}
			body["transcription"] = r.Transcription
			body["detected_keywords"] = keywords
		}
	}
	if r.Err != nil {
		body["error"] = r.Err.Message
		body["code"] = r.Err.Code
	}
	return body
}

// HTTPStatus is 200 unless the run failed, in which case it is the
// error's status.
func (r *Result) HTTPStatus() int {
	if r.Status != StatusFailed {
		return http.StatusOK
	}
	if r.Err == nil || r.Err.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return r.Err.HTTPStatus
}

// Code returns the error code, or "" for a completed run.
func (r *Result) Code() errors.ErrorCode {
	if r.Err == nil {
		return ""
	}
	return r.Err.Code
}
