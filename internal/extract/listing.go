package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amaumene/gostreamfr/internal/models"
)

const listSelector = "ul.post-lst"

// sectionAnchors lists the element ids that introduce each home page section.
var sectionAnchors = map[Section][]string{
	SectionMovies:   {"movies", "films", "tab-movies"},
	SectionSeries:   {"series", "tv", "tab-series"},
	SectionTrending: {"trending", "populaires", "tab-trending"},
}

// ContentList returns the listing items of section, or of the main listing
// when section is empty.
func (d *Document) ContentList(section Section) []models.MediaItem {
	region := d.listRegion(section)
	items := []models.MediaItem{}
	region.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if item, ok := d.mediaItem(li); ok {
			items = append(items, item)
		}
	})
	return items
}

// listRegion narrows the page to the one list that belongs to section. Lists
// inside sidebars and widgets are never the main listing.
func (d *Document) listRegion(section Section) *goquery.Selection {
	if anchors, ok := sectionAnchors[section]; ok {
		for _, id := range anchors {
			anchor := d.doc.Find("#" + id).First()
			if anchor.Length() == 0 {
				continue
			}
			if list := anchor.Find(listSelector).First(); list.Length() > 0 {
				return list
			}
			for sib := anchor.Next(); sib.Length() > 0; sib = sib.Next() {
				if sib.Is(listSelector) {
					return sib
				}
				if list := sib.Find(listSelector).First(); list.Length() > 0 {
					return list
				}
			}
		}
		return d.doc.Selection.Slice(0, 0)
	}

	return d.doc.Find(listSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest("aside, .widget, .sidebar").Length() == 0
	}).First()
}

func (d *Document) mediaItem(li *goquery.Selection) (models.MediaItem, bool) {
	link := li.Find("a[href]").First()
	href, _ := link.Attr("href")
	url := d.resolve(href)

	title := textOf(li, ".entry-title", ".title", "h2", "h3")
	img := li.Find("img").First()
	alt := strings.TrimSpace(img.AttrOr("alt", ""))
	if title == "" {
		title = alt
	}
	if title == "" {
		title = strings.TrimSpace(link.AttrOr("title", ""))
	}
	if title == "" && url == "" {
		return models.MediaItem{}, false
	}

	classes := classOf(li) + " " + classOf(li.Find("article").First())
	cls := Classify(classes)

	year := yearToken(classes)
	if year == "" {
		year = textOf(li, ".year", ".Date")
	}

	return models.MediaItem{
		ID:          itemID(li, url),
		Title:       title,
		Image:       d.image(img),
		ImageAlt:    alt,
		URL:         url,
		Rating:      strPtr(parseRating(textOf(li, ".vote", ".rating", ".imdb"))),
		ContentType: cls.ContentType,
		Categories:  cls.Categories,
		Tags:        cls.Tags,
		Cast:        cls.Cast,
		Directors:   cls.Directors,
		Countries:   cls.Countries,
		Year:        strPtr(year),
	}, true
}

// itemID prefers the post number from id="post-NNN", then the last URL segment.
func itemID(li *goquery.Selection, url string) string {
	if id := strings.TrimSpace(li.AttrOr("id", "")); id != "" {
		return strings.TrimPrefix(id, "post-")
	}
	trimmed := strings.TrimRight(url, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// ExtractContentList parses raw HTML and returns the items of section.
func ExtractContentList(raw, base string, section Section) []models.MediaItem {
	return LoadWithBase(raw, base).ContentList(section)
}
