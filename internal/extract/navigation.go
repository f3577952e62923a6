package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/amaumene/gostreamfr/internal/constants"
	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/normalize"
)

// Schedule returns the weekly broadcast schedule. Every weekday key is present.
func (d *Document) Schedule() map[string][]models.ScheduleEntry {
	out := make(map[string][]models.ScheduleEntry, len(constants.Weekdays))
	for _, day := range constants.Weekdays {
		entries := []models.ScheduleEntry{}
		d.doc.Find("#" + day + " .schedule-item").Each(func(_ int, s *goquery.Selection) {
			entry := models.ScheduleEntry{
				Time: textOf(s, ".time"),
				Show: textOf(s, ".show", ".description"),
			}
			if entry.Time == "" && entry.Show == "" {
				return
			}
			entries = append(entries, entry)
		})
		out[day] = entries
	}
	return out
}

// Menu returns the header navigation with one level of submenus.
func (d *Document) Menu() []models.MenuItem {
	list := d.navList("#menu-header", "header .menu")
	items := []models.MenuItem{}
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		item, ok := d.menuItem(li)
		if !ok {
			return
		}
		if li.HasClass("menu-item-has-children") {
			li.Find(".sub-menu").First().ChildrenFiltered("li").Each(func(_ int, sub *goquery.Selection) {
				if child, ok := d.menuItem(sub); ok {
					item.Children = append(item.Children, child)
				}
			})
		}
		items = append(items, item)
	})
	return items
}

// Footer returns the footer navigation links.
func (d *Document) Footer() []models.FooterItem {
	list := d.navList("#menu-footer", "footer .menu")
	items := []models.FooterItem{}
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if item, ok := d.menuItem(li); ok {
			items = append(items, models.FooterItem{ID: item.ID, Title: item.Title, URL: item.URL})
		}
	})
	return items
}

// navList finds the first matching list; a wrapper element is narrowed to its first ul.
func (d *Document) navList(selectors ...string) *goquery.Selection {
	list := firstMatch(d.doc.Selection, selectors...)
	if list.Length() > 0 && !list.Is("ul, ol") {
		list = list.Find("ul, ol").First()
	}
	return list
}

func (d *Document) menuItem(li *goquery.Selection) (models.MenuItem, bool) {
	a := li.ChildrenFiltered("a").First()
	if a.Length() == 0 {
		a = li.Find("a").First()
	}
	title := normalize.CleanText(a.Text())
	url := d.resolve(a.AttrOr("href", ""))
	if title == "" && url == "" {
		return models.MenuItem{}, false
	}
	return models.MenuItem{
		ID:       li.AttrOr("id", ""),
		Title:    title,
		URL:      url,
		Children: []models.MenuItem{},
	}, true
}

// ExtractSchedule parses raw HTML and returns the weekly schedule.
func ExtractSchedule(raw string) map[string][]models.ScheduleEntry {
	return Load(raw).Schedule()
}

// ExtractMenu parses raw HTML and returns the header navigation.
func ExtractMenu(raw, base string) []models.MenuItem {
	return LoadWithBase(raw, base).Menu()
}

// ExtractFooter parses raw HTML and returns the footer navigation.
func ExtractFooter(raw, base string) []models.FooterItem {
	return LoadWithBase(raw, base).Footer()
}
