// Package constants defines application-wide constants and default values.
package constants

const (
	// Service metadata
	ServiceName    = "gostreamfr"
	ServiceVersion = "1.0.0"

	// Default configuration values
	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	// DefaultBaseURL is served when the remote base URL file is unreachable.
	DefaultBaseURL = "https://french-stream.example"

	// Response cache settings
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 300 // seconds

	// CacheControl lets shared caches serve repeated requests during the freshness window
	CacheControl = "public, s-maxage=300, stale-while-revalidate=600"

	// Episode page fan-out pacing
	EpisodeRateBurst = 5
	EpisodeRate      = 5 // requests per second
)

// Proxy protocols. The target is either passed whole or as an origin-relative path.
const (
	ProxyModeURL  = "url"
	ProxyModePath = "path"
)

// Remote config cache keys
const (
	RemoteKeyBaseURL  = "remote:base_url"
	RemoteKeyProxyURL = "remote:proxy_url"
)
