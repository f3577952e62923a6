package models

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Stats      interface{} `json:"stats,omitempty"`
	Error      string      `json:"error,omitempty"`
	StatusCode int         `json:"statusCode,omitempty"`
}

// Stats carries the counters shared by every listing response.
type Stats struct {
	ResultsCount int    `json:"resultsCount"`
	Page         int    `json:"page,omitempty"`
	Source       string `json:"source,omitempty"`
	DurationMs   int64  `json:"durationMs"`
}

// Success wraps data and stats in a successful envelope
func Success(data, stats interface{}) Envelope {
	return Envelope{Success: true, Data: data, Stats: stats}
}

// Failure builds an error envelope
func Failure(message string, statusCode int) Envelope {
	return Envelope{Success: false, Error: message, StatusCode: statusCode}
}

// ListingData is the payload of catalog, category, letter and search responses.
type ListingData struct {
	PaginationInfo
	CatalogType string      `json:"catalogType,omitempty"`
	Path        string      `json:"path,omitempty"`
	Letter      string      `json:"letter,omitempty"`
	Query       string      `json:"query,omitempty"`
	TypeFilter  string      `json:"typeFilter,omitempty"`
	SourceURL   string      `json:"sourceUrl"`
	Results     []MediaItem `json:"results"`
}

// HomeData is the payload of the home response.
type HomeData struct {
	Sections map[string][]MediaItem     `json:"sections"`
	Schedule map[string][]ScheduleEntry `json:"schedule"`
	Menu     []MenuItem                 `json:"menu"`
	Footer   []FooterItem               `json:"footer"`
}

// SeriesData is the payload of the series response.
type SeriesData struct {
	Slug    string         `json:"slug"`
	URL     string         `json:"url"`
	Series  SeriesMetadata `json:"series"`
	Seasons []SeasonData   `json:"seasons"`
}

// MovieData is the payload of the movie response.
type MovieData struct {
	Slug    string        `json:"slug"`
	Movie   MovieDetails  `json:"movie"`
	Servers []VideoServer `json:"servers"`
	Iframe  string        `json:"iframe,omitempty"`
}

// EpisodeData is the payload of the episode response.
type EpisodeData struct {
	URL     string        `json:"url"`
	Servers []VideoServer `json:"servers"`
	Iframe  string        `json:"iframe,omitempty"`
}

// SectionData is the payload of the single-section home response.
type SectionData struct {
	Section string      `json:"section"`
	Results interface{} `json:"results"`
}

// EmbedData is the payload of the embed response.
type EmbedData struct {
	Src    string `json:"src"`
	Iframe string `json:"iframe"`
}

// MetaData is the payload of the meta response.
type MetaData struct {
	URL  string            `json:"url"`
	Tags map[string]string `json:"tags"`
}

// HomeStats adds per-section counts to Stats.
type HomeStats struct {
	Stats
	Sections map[string]int `json:"sections"`
}

// SeriesStats adds fan-out counters to Stats.
type SeriesStats struct {
	Stats
	SeasonsRequested string `json:"seasonsRequested"`
	SeasonsCount     int    `json:"seasonsCount"`
	EpisodesCount    int    `json:"episodesCount"`
	ServersCount     int    `json:"serversCount"`
	FailedFetches    int    `json:"failedFetches"`
}
