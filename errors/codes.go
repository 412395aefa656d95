package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline errors. Each one terminates the request it occurs in.
const (
	// ErrCodeUnsupportedFormat indicates the uploaded file extension is not in the allow-list.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeTranscodeFailed indicates the media converter failed or produced no output.
	ErrCodeTranscodeFailed ErrorCode = "TRANSCODE_FAILED"
	// ErrCodeEmptyAudio indicates the decoded audio contains no samples.
	ErrCodeEmptyAudio ErrorCode = "EMPTY_AUDIO"
	// ErrCodeModelUnavailable indicates an inference model could not be used.
	ErrCodeModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"
	// ErrCodeInferenceFailed indicates a model call failed for this request.
	ErrCodeInferenceFailed ErrorCode = "INFERENCE_FAILED"
	// ErrCodeUnknownLabel indicates the label taxonomy is missing or does not cover a class.
	ErrCodeUnknownLabel ErrorCode = "UNKNOWN_LABEL"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodePayloadTooLarge indicates the upload exceeds the configured size limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Access and internal errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeCanceled indicates the request was canceled or timed out before a stage started.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeRateLimited indicates the client exceeded its request budget.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// retryableCodes marks failures a caller may reasonably resubmit.
// Nothing in the service retries on its own.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeInferenceFailed:  true,
	ErrCodeModelUnavailable: false,
	ErrCodeTranscodeFailed:  false,
	ErrCodeInternal:         false,
	ErrCodeRateLimited:      true,
}

// IsRetryableCode returns true if the error code indicates the caller may resubmit.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsClientError reports whether the code is caused by the submitted input.
// TRANSCODE_FAILED counts as a client error even though its timeout and
// missing-binary variants answer 5xx.
func IsClientError(code ErrorCode) bool {
	switch code {
	case ErrCodeUnsupportedFormat, ErrCodeTranscodeFailed, ErrCodeEmptyAudio,
		ErrCodeInvalidInput, ErrCodeMissingField, ErrCodePayloadTooLarge, ErrCodeUnauthorized, ErrCodeCanceled, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}
