package extract

import (
	"errors"
	"fmt"
	"strings"
)

// View names one extraction operation.
type View string

const (
	ViewContent    View = "content"
	ViewPagination View = "pagination"
	ViewSchedule   View = "schedule"
	ViewMenu       View = "menu"
	ViewFooter     View = "footer"
	ViewSeries     View = "series"
	ViewEpisodes   View = "episodes"
	ViewServers    View = "servers"
	ViewMeta       View = "meta"
	ViewIframe     View = "iframe"
)

// Section names a block of the home page.
type Section string

const (
	SectionMovies   Section = "movies"
	SectionSeries   Section = "series"
	SectionTrending Section = "trending"
	SectionSchedule Section = "schedule"
	SectionMenu     Section = "menu"
	SectionFooter   Section = "footer"
)

// Sections lists every home page section in display order.
var Sections = []Section{SectionMovies, SectionSeries, SectionTrending, SectionSchedule, SectionMenu, SectionFooter}

var sectionAliases = map[string]Section{
	"movies":   SectionMovies,
	"movie":    SectionMovies,
	"films":    SectionMovies,
	"series":   SectionSeries,
	"tv":       SectionSeries,
	"trending": SectionTrending,
	"popular":  SectionTrending,
	"schedule": SectionSchedule,
	"planning": SectionSchedule,
	"menu":     SectionMenu,
	"footer":   SectionFooter,
}

// ParseSection maps a query value to a Section.
func ParseSection(s string) (Section, bool) {
	sec, ok := sectionAliases[strings.ToLower(strings.TrimSpace(s))]
	return sec, ok
}

// IsListing reports whether the section is a list of media items.
func (s Section) IsListing() bool {
	_, ok := sectionAnchors[s]
	return ok
}

// View returns the extraction view that produces the section.
func (s Section) View() View {
	switch s {
	case SectionSchedule:
		return ViewSchedule
	case SectionMenu:
		return ViewMenu
	case SectionFooter:
		return ViewFooter
	default:
		return ViewContent
	}
}

// ErrUnknownView is returned by Extract for a view outside the View constants.
var ErrUnknownView = errors.New("unknown extraction view")

// Options carries the inputs some views need.
type Options struct {
	Base    string
	Section Section
	Page    int
	Season  int
}

// Extract runs one view over raw HTML.
func Extract(raw string, view View, opts Options) (interface{}, error) {
	d := LoadWithBase(raw, opts.Base)
	switch view {
	case ViewContent:
		return d.ContentList(opts.Section), nil
	case ViewPagination:
		return d.Pagination(opts.Page), nil
	case ViewSchedule:
		return d.Schedule(), nil
	case ViewMenu:
		return d.Menu(), nil
	case ViewFooter:
		return d.Footer(), nil
	case ViewSeries:
		return d.SeriesMetadata(), nil
	case ViewEpisodes:
		return d.SeasonEpisodes(opts.Season), nil
	case ViewServers:
		return d.VideoServers(), nil
	case ViewMeta:
		return d.MetaTags(), nil
	case ViewIframe:
		return d.IframeSrc(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}
