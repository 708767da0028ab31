// Package constant defines immutable application-level identifiers.
package constant

const (
	// Streamdex is the canonical application identifier used for filesystem paths and CLI branding.
	Streamdex = "streamdex"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Persistent store keys shared by every storage backend.
const (
	StoreKeyContent   = "all_content"
	StoreKeyTimestamp = "content_timestamp"
)

// Build metadata, set with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
