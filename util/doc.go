// Package util holds small parsing and formatting helpers shared by the
// server, the CLI and configuration code.
package util
