package constants

// Upstream path conventions
const (
	SeriesPathFormat  = "%s/series/%s/"
	MoviePathFormat   = "%s/movies/%s/"
	EpisodePathFormat = "%s/episode/%s/"
	SeasonPathFormat  = "%s/season/%s-season-%d/"
	LetterSection     = "letter"
)

// Weekdays lists the schedule container ids in display order.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// Browser-like request headers for direct fetches
const (
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	BrowserAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	BrowserLanguage  = "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7"
	BrowserEncoding  = "gzip, deflate, br"
)
