package extract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cehbz/torrentname"

	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/normalize"
)

// SeriesMetadata reads the header of a series or movie detail page.
func (d *Document) SeriesMetadata() models.SeriesMetadata {
	single := firstMatch(d.doc.Selection, "article.single", ".single", "article", "body")
	meta := d.MetaTags()

	title := textOf(single, ".entry-title", "h1")
	if title == "" {
		title = meta["og:title"]
	}

	image := d.image(firstMatch(single, ".post-thumbnail img", ".poster img", "figure img"))
	if image == nil {
		image = normalize.ImageURL(meta["og:image"])
	}

	description := textOf(single, ".description", ".entry-content > p", ".wp-content")
	if description == "" {
		description = meta["description"]
	}

	year := textOf(single, ".year", ".Date")
	if year == "" {
		year = yearToken(classOf(d.doc.Find("body")) + " " + classOf(single))
	}

	seasons := d.availableSeasons()
	totalSeasons := normalize.FirstNumber(textOf(single, ".seasons"))
	if totalSeasons == 0 {
		totalSeasons = len(seasons)
	}
	if len(seasons) == 0 {
		for n := 1; n <= totalSeasons; n++ {
			seasons = append(seasons, models.SeasonRef{SeasonNumber: n, Name: seasonName(n)})
		}
	}

	return models.SeriesMetadata{
		Title:            title,
		Image:            image,
		Duration:         textOf(single, ".duration"),
		Year:             year,
		Views:            textOf(single, ".views"),
		TotalSeasons:     totalSeasons,
		TotalEpisodes:    normalize.FirstNumber(textOf(single, ".episodes")),
		Rating:           parseRating(textOf(single, ".vote .num", ".vote", ".rating")),
		Description:      description,
		AvailableSeasons: seasons,
	}
}

// availableSeasons reads the season selector entries, deduplicated and ascending.
func (d *Document) availableSeasons() []models.SeasonRef {
	byNumber := map[int]models.SeasonRef{}
	d.doc.Find("[data-season]").Each(func(_ int, s *goquery.Selection) {
		n := normalize.FirstNumber(s.AttrOr("data-season", ""))
		if n < 1 {
			return
		}
		if _, ok := byNumber[n]; ok {
			return
		}
		name := normalize.CleanText(s.Text())
		if name == "" {
			name = seasonName(n)
		}
		byNumber[n] = models.SeasonRef{SeasonNumber: n, Name: name}
	})

	out := make([]models.SeasonRef, 0, len(byNumber))
	for _, ref := range byNumber {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeasonNumber < out[j].SeasonNumber })
	return out
}

func seasonName(n int) string {
	return fmt.Sprintf("Season %d", n)
}

// SeasonEpisodes reads a season listing page.
func (d *Document) SeasonEpisodes(season int) models.SeasonData {
	region := firstMatch(d.doc.Selection, "#episode_by_temp "+listSelector)
	if region.Length() == 0 {
		region = d.listRegion("")
	}

	episodes := []models.Episode{}
	region.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		link := li.Find("a[href]").First()
		title := textOf(li, ".entry-title", ".title", "h2", "h3")
		url := d.resolve(link.AttrOr("href", ""))
		if title == "" && url == "" {
			return
		}
		episodes = append(episodes, models.Episode{
			EpisodeNumber: episodeNumber(textOf(li, ".num-epi"), title, i+1),
			Title:         title,
			Image:         d.image(li.Find("img").First()),
			Time:          textOf(li, ".time", ".date"),
			URL:           url,
		})
	})

	classes := classOf(d.doc.Find("body")) + " " + classOf(d.doc.Find("article").First())
	cls := Classify(classes)
	// Season pages are always series pages, even when the type token is missing
	if cls.ContentType != models.ContentTypeSeries {
		cast := normalize.FirstClassToken(classes, prefixCastTV, prefixCast)
		if len(cast) > 0 {
			cls.Cast = truncateCast(cast)
		}
	}

	year := yearToken(classes)
	if year == "" {
		year = textOf(d.doc.Selection, ".year")
	}

	return models.SeasonData{
		SeasonNumber: season,
		Episodes:     episodes,
		Categories:   cls.Categories,
		Tags:         cls.Tags,
		Cast:         cls.Cast,
		Year:         year,
		Rating:       parseRating(textOf(d.doc.Selection, ".vote .num", ".vote", ".rating")),
	}
}

// episodeNumber reads "SxE" markers, then falls back to release-name parsing
// of the title and finally to the position in the list.
func episodeNumber(marker, title string, position int) int {
	if marker != "" {
		if _, ep, found := strings.Cut(strings.ToLower(marker), "x"); found {
			if n, err := strconv.Atoi(strings.TrimSpace(ep)); err == nil && n > 0 {
				return n
			}
		}
		if n := normalize.FirstNumber(marker); n > 0 && !strings.ContainsAny(marker, "xX") {
			return n
		}
	}
	if title != "" {
		if parsed := torrentname.Parse(title); parsed != nil && parsed.Episode > 0 {
			return parsed.Episode
		}
	}
	return position
}

func truncateCast(cast []string) []string {
	if len(cast) > maxCast {
		return cast[:maxCast]
	}
	return cast
}

// ExtractSeriesMetadata parses raw HTML and returns the detail page header.
func ExtractSeriesMetadata(raw, base string) models.SeriesMetadata {
	return LoadWithBase(raw, base).SeriesMetadata()
}

// ExtractSeasonEpisodes parses raw HTML and returns the season listing.
func ExtractSeasonEpisodes(raw, base string, season int) models.SeasonData {
	return LoadWithBase(raw, base).SeasonEpisodes(season)
}
