package models

// SeasonRef names a season offered by the season selector of a series page.
type SeasonRef struct {
	SeasonNumber int    `json:"seasonNumber"`
	Name         string `json:"name"`
}

// SeriesMetadata holds the header information of a series or movie page.
type SeriesMetadata struct {
	Title            string      `json:"title"`
	Image            *string     `json:"image"`
	Duration         string      `json:"duration"`
	Year             string      `json:"year"`
	Views            string      `json:"views"`
	TotalSeasons     int         `json:"totalSeasons"`
	TotalEpisodes    int         `json:"totalEpisodes"`
	Rating           string      `json:"rating"`
	Description      string      `json:"description"`
	AvailableSeasons []SeasonRef `json:"availableSeasons"`
}

// Episode is one entry of a season listing.
type Episode struct {
	EpisodeNumber int           `json:"episodeNumber"`
	Title         string        `json:"title"`
	Image         *string       `json:"image"`
	Time          string        `json:"time"`
	URL           string        `json:"url"`
	Servers       []VideoServer `json:"servers,omitempty"`
}

// SeasonData is the episode listing of one season plus its classification.
type SeasonData struct {
	SeasonNumber int       `json:"seasonNumber"`
	Episodes     []Episode `json:"episodes"`
	Categories   []string  `json:"categories"`
	Tags         []string  `json:"tags"`
	Cast         []string  `json:"cast"`
	Year         string    `json:"year"`
	Rating       string    `json:"rating"`
}

// VideoServer is one embedded player of an episode or movie page.
type VideoServer struct {
	ServerNumber  int    `json:"serverNumber"`
	DisplayNumber int    `json:"displayNumber,omitempty"`
	Name          string `json:"name,omitempty"`
	Src           string `json:"src"`
}

// Classification groups the class-token derived attributes of a page or item.
type Classification struct {
	ContentType string   `json:"contentType"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	Cast        []string `json:"cast"`
	Directors   []string `json:"directors"`
	Countries   []string `json:"countries"`
}

// MovieDetails is the detail page of a movie.
type MovieDetails struct {
	SeriesMetadata
	Classification
	URL string `json:"url"`
}
