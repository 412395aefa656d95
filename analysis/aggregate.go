package analysis

import (
	"fmt"

	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/transcription"
)

// FailurePolicy decides what a single failed inference stage means for
// the whole run.
type FailurePolicy int

const (
	// FailurePolicyTotal fails the run on any stage error.
	FailurePolicyTotal FailurePolicy = iota
	// FailurePolicyPartial returns the surviving modality when exactly one
	// stage fails.
	FailurePolicyPartial
)

func (p FailurePolicy) String() string {
	if p == FailurePolicyPartial {
		return "partial"
	}
	return "total"
}

// Aggregate merges the two inference outcomes. Errors are reported in
// stage order: classification first, then transcription. A stage that
// returned neither a value nor an error counts as an internal failure.
func Aggregate(
	cls *classification.Result, clsErr error,
	tr *transcription.Result, trErr error,
	policy FailurePolicy,
) *Result {
	if clsErr == nil && cls == nil {
		clsErr = errors.Internal(fmt.Errorf("classification produced no result"))
	}
	if trErr == nil && tr == nil {
		trErr = errors.Internal(fmt.Errorf("transcription produced no result"))
	}

	res := &Result{Status: StatusCompleted}
	if clsErr == nil {
		res.SoundClass = cls.Label
		res.Score = cls.Score
		res.hasClass = true
	}
	if trErr == nil {
		res.Transcription = tr.Text
		res.DetectedKeywords = tr.Keywords
		res.hasTranscript = true
	}

	switch {
	case clsErr == nil && trErr == nil:
		return res
	case clsErr != nil && trErr != nil:
		return Failed(clsErr)
	case policy != FailurePolicyPartial:
		if clsErr != nil {
			return Failed(clsErr)
		}
		return Failed(trErr)
	}

	res.Status = StatusPartial
	if clsErr != nil {
		res.Err = errors.From(clsErr)
	} else {
		res.Err = errors.From(trErr)
	}
	return res
}
