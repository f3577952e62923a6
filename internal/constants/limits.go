// Package constants defines numerical limits used by the extraction layer.
package constants

// Limits for extracted data
const (
	// Cast lists are truncated to this many names
	MaxCastMembers = 10

	// Image size segment forced on thumbnail URLs
	PreferredImageSize = "w500"

	// Upper bound on page numbers accepted from clients
	MaxPageNumber = 5000
)
