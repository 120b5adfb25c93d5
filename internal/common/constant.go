// Package common contains shared constants and sentinel errors used across
// notetake components.
package common

const (
	// RequestIDHeader carries the per-request ulid on HTTP responses.
	RequestIDHeader = "X-Request-Id"

	// FileNameMetadata and FileTypeMetadata carry the original upload name
	// and content type alongside a gRPC Upload call.
	FileNameMetadata = "x-file-name"
	FileTypeMetadata = "x-file-type"
)
