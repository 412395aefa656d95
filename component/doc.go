// Package component defines the lifecycle contract for long-lived parts of
// the service: the scratch store, the inference runtime and the HTTP
// server. A Registry starts them in order and stops them in reverse.
package component
