package extract

import (
	"sort"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/normalize"
)

const paginationSelector = ".navigation, .pagination, .wp-pagenavi, nav.pagination"

// Pagination reads the navigation block. requestedPage is used when the block
// does not mark a current page, and as the single page when there is no block.
func (d *Document) Pagination(requestedPage int) models.PaginationInfo {
	if requestedPage < 1 {
		requestedPage = 1
	}
	nav := d.doc.Find(paginationSelector).First()
	if nav.Length() == 0 {
		return models.SinglePage(requestedPage)
	}

	info := models.PaginationInfo{Pages: []models.PageLink{}}
	seen := map[int]int{}
	current := 0

	nav.Find("a, span").Each(func(_ int, s *goquery.Selection) {
		text := normalize.CleanText(s.Text())
		href := d.resolve(s.AttrOr("href", ""))

		// Labels only count on links; a wrapped <span> must not clear its parent's URL
		switch text {
		case "NEXT":
			if href != "" {
				info.HasNextPage = true
				info.NextPageURL = strPtr(href)
			}
			return
		case "PREV", "PREVIOUS":
			if href != "" {
				info.HasPrevPage = true
				info.PrevPageURL = strPtr(href)
			}
			return
		}
		if !normalize.IsDigits(text) {
			return
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			return
		}
		isCurrent := s.HasClass("current") || s.AttrOr("aria-current", "") != ""
		if isCurrent {
			current = n
		}

		if i, ok := seen[n]; ok {
			if isCurrent {
				info.Pages[i].Current = true
			}
			if info.Pages[i].URL == "" {
				info.Pages[i].URL = href
			}
			return
		}
		seen[n] = len(info.Pages)
		info.Pages = append(info.Pages, models.PageLink{Page: n, URL: href, Current: isCurrent})
	})

	if current == 0 {
		current = requestedPage
	}
	info.CurrentPage = current
	info.TotalPages = current
	for _, p := range info.Pages {
		if p.Page > info.TotalPages {
			info.TotalPages = p.Page
		}
	}
	sort.Slice(info.Pages, func(i, j int) bool { return info.Pages[i].Page < info.Pages[j].Page })

	// A NEXT/PREV link without an href is not navigable
	info.HasNextPage = info.NextPageURL != nil
	info.HasPrevPage = info.PrevPageURL != nil
	return info
}

// ExtractPagination parses raw HTML and returns its pagination.
func ExtractPagination(raw, base string, requestedPage int) models.PaginationInfo {
	return LoadWithBase(raw, base).Pagination(requestedPage)
}
