// Package server provides the HTTP server: a gin engine behind h2c with
// lifecycle hooks, the standard middleware stack and the built-in
// /health and /info endpoints.
//
// Middleware lives in server/middleware and the operational handlers in
// server/endpoint.
package server
