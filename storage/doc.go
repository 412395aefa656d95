// Package storage provides the scratch area uploads and transcoded audio
// live in for the duration of one request.
//
// Backends register a factory and are selected through Config:
//
//	scratch:
//	  provider: "local"
//	  base_path: "/tmp/soundguard"
//	  max_file_size: 52428800
//
// storage/local is the only backend. The external transcoder needs real
// file paths, so every backend must resolve keys through LocalPath.
package storage
