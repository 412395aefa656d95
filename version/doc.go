// Package version reports the build identity of the soundguard binary.
//
// Release builds stamp it through -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/soundguard/version.Version=1.2.0" ./cmd/soundguard
//
// Unstamped builds fall back to the VCS settings the toolchain embeds.
package version
