// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Destination - these keys govern where and in which quality episodes are written.
const (
	DownloadsDir     = "downloads.dir"
	DownloadsQuality = "downloads.quality"
	DownloadsFilms   = "downloads.include_films"
)

// Network Behaviour - these keys tune the resilient fetcher and the proxy pool.
const (
	NetworkTimeout     = "network.timeout"
	NetworkUserAgent   = "network.user_agent"
	NetworkCookiesFile = "network.cookies_file"
	NetworkProxiesFile = "network.proxies_file"
	NetworkFingerprint = "network.tls_fingerprint"
)

// History Tracking - these keys configure the persistence of per-anime resume points.
const (
	HistorySaveOnDownload = "history.save_on_download"
)

// Search Interaction - these keys define the prompt suggestion behaviour.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite      = "logs.write"
	LogsLevel      = "logs.level"
	LogsJson       = "logs.json"
	LogsMaxSizeMB  = "logs.max_size_mb"
	LogsMaxBackups = "logs.max_backups"
)

// CLI Execution Environment - these flags and settings govern console output.
const (
	CliColored = "cli.colored"
)
