// Package models defines the records produced by the extraction layer and the
// JSON envelopes returned by the API.
package models

// Content types inferred from type-* class tokens
const (
	ContentTypeMovie   = "movie"
	ContentTypeSeries  = "series"
	ContentTypePost    = "post"
	ContentTypeUnknown = "unknown"
)

// MediaItem is one entry of a listing page.
type MediaItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Image       *string  `json:"image"`
	ImageAlt    string   `json:"imageAlt"`
	URL         string   `json:"url"`
	Rating      *string  `json:"rating"`
	ContentType string   `json:"contentType"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	Cast        []string `json:"cast"`
	Directors   []string `json:"directors"`
	Countries   []string `json:"countries"`
	Year        *string  `json:"year"`
}

// PageLink is one numbered entry of a pagination block.
type PageLink struct {
	Page    int    `json:"page"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

// PaginationInfo describes where a listing page sits in its sequence.
type PaginationInfo struct {
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	HasNextPage bool       `json:"hasNextPage"`
	HasPrevPage bool       `json:"hasPrevPage"`
	NextPageURL *string    `json:"nextPageUrl"`
	PrevPageURL *string    `json:"prevPageUrl"`
	Pages       []PageLink `json:"pages"`
}

// SinglePage is the pagination of a listing without navigation markup.
func SinglePage(current int) PaginationInfo {
	if current < 1 {
		current = 1
	}
	return PaginationInfo{
		CurrentPage: current,
		TotalPages:  current,
		Pages:       []PageLink{},
	}
}

// ScheduleEntry is one broadcast slot of the weekly schedule.
type ScheduleEntry struct {
	Time string `json:"time"`
	Show string `json:"show"`
}

// MenuItem is an entry of the header navigation. Children are one level deep.
type MenuItem struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	Children []MenuItem `json:"children"`
}

// FooterItem is an entry of the footer navigation.
type FooterItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
