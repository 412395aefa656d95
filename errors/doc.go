// Package errors provides the typed error descriptors used across the audio
// pipeline. Every stage boundary returns an *AppError carrying a
// machine-readable code, the HTTP status the outer layer should answer with,
// and whether the caller may resubmit.
package errors
