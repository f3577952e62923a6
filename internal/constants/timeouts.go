// Package constants defines timeout values used throughout the application.
package constants

import "time"

// Timeout constants for various operations
const (
	// Timeout applied to each proxy or direct page fetch
	FetchTimeout = 30 * time.Second

	// Timeout for the small remote config text files
	RemoteConfigTimeout = 10 * time.Second

	// Remote config values are refreshed once they are this old
	RemoteConfigTTL = 5 * time.Minute

	// Persisted responses older than this are purged
	ResponseRetention = 24 * time.Hour
)
