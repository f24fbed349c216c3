// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Jutdl is the canonical application identifier used for filesystem paths and CLI branding.
	Jutdl = "jutdl"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the default HTTP User-Agent string sent to the site.
	// Replace it with the one of the browser the cookies were exported from when Cloudflare keeps rejecting requests.
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:141.0) Gecko/20100101 Firefox/141.0"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
