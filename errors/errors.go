package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the caller may resubmit the request.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Pipeline constructors ---

// UnsupportedFormat creates an error for a file extension outside the allow-list.
func UnsupportedFormat(ext string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("Unsupported file format %q.", ext),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"extension": ext},
	}
}

// TranscodeFailed creates an error for a conversion that failed or produced nothing.
func TranscodeFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscodeFailed, Message: "The uploaded media could not be converted to audio.",
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false, Cause: cause,
	}
}

// TranscodeTimedOut creates the TRANSCODE_FAILED variant for a conversion
// killed by its deadline. The server ran out of time, so it is a 504.
func TranscodeTimedOut(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscodeFailed, Message: "Converting the uploaded media timed out.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true, Cause: cause,
		Details: map[string]any{"timeout": true},
	}
}

// TranscoderMissing creates the TRANSCODE_FAILED variant for a host without
// the converter binary.
func TranscoderMissing(binary string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscodeFailed, Message: "The media converter is not installed.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false, Cause: cause,
		Details: map[string]any{"binary": binary},
	}
}

// EmptyAudio creates an error for a stage that received audio without samples.
func EmptyAudio(stage string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyAudio, Message: "The uploaded media contains no audio.",
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"stage": stage},
	}
}

// ModelUnavailable creates an error for a model that failed to initialize or did not answer in time.
func ModelUnavailable(model string) *AppError {
	return &AppError{
		Code: ErrCodeModelUnavailable, Message: fmt.Sprintf("The %s model is unavailable.", model),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false,
		Details: map[string]any{"model": model},
	}
}

// InferenceFailed creates an error for a model call that failed during a request.
func InferenceFailed(model string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInferenceFailed, Message: fmt.Sprintf("The %s model failed to process the audio.", model),
		HTTPStatus: http.StatusBadGateway, Retryable: true, Cause: cause,
		Details: map[string]any{"model": model},
	}
}

// UnknownLabel creates an error for a missing or incomplete label taxonomy.
func UnknownLabel(reason string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownLabel, Message: fmt.Sprintf("Sound label lookup failed: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// --- Common Error Constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// PayloadTooLarge creates a new AppError for an upload over limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: fmt.Sprintf("Upload exceeds the %d byte limit.", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"limit": limit},
	}
}

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// Canceled creates a new AppError for a run stopped before stage could start.
func Canceled(stage string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "The request was canceled before processing finished.",
		HTTPStatus: http.StatusRequestTimeout, Retryable: false, Cause: cause,
		Details: map[string]any{"stage": stage},
	}
}

// RateLimited creates a new AppError for a client over its request budget.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many uploads, try again later.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}
