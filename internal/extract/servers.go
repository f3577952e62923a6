package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/normalize"
)

const optionsPrefix = "options-"

// VideoServers lists the embedded players of a page. Tabs in .aa-tbs-video
// supply names and 1-based display numbers; players without a tab keep only
// their source.
func (d *Document) VideoServers() []models.VideoServer {
	servers := []models.VideoServer{}
	d.doc.Find(`[id^="` + optionsPrefix + `"]`).Each(func(_ int, box *goquery.Selection) {
		id := box.AttrOr("id", "")
		n, err := strconv.Atoi(strings.TrimPrefix(id, optionsPrefix))
		if err != nil || n < 0 {
			return
		}
		src := iframeSource(box.Find("iframe").First())
		if src == "" {
			return
		}

		server := models.VideoServer{ServerNumber: n, Src: src}
		tab := d.doc.Find(`.aa-tbs-video a[href="#` + id + `"]`).First()
		if tab.Length() > 0 {
			server.DisplayNumber = n + 1
			server.Name = textOf(tab, ".server")
			if server.Name == "" {
				server.Name = normalize.CleanText(tab.Text())
			}
		}
		servers = append(servers, server)
	})
	return servers
}

// IframeSrc returns the source of the first iframe that has one.
func (d *Document) IframeSrc() string {
	var src string
	d.doc.Find("iframe").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src = iframeSource(s)
		return src == ""
	})
	return src
}

// MetaTags flattens <meta name|property content> pairs. The first value of a key wins.
func (d *Document) MetaTags() map[string]string {
	tags := map[string]string{}
	d.doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		key := attrFirst(s, "property", "name", "itemprop")
		if key == "" {
			return
		}
		if _, ok := tags[key]; ok {
			return
		}
		tags[key] = strings.TrimSpace(s.AttrOr("content", ""))
	})
	return tags
}

func iframeSource(s *goquery.Selection) string {
	src := attrFirst(s, "src", "data-src")
	if src == "" || src == "about:blank" {
		src = attrFirst(s, "data-src")
	}
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	return src
}

// ExtractVideoServers parses raw HTML and returns its embedded players.
func ExtractVideoServers(raw string) []models.VideoServer {
	return Load(raw).VideoServers()
}

// ExtractIframeSrc parses raw HTML and returns the first iframe source.
func ExtractIframeSrc(raw string) string {
	return Load(raw).IframeSrc()
}

// ExtractMetaTags parses raw HTML and returns its meta tags.
func ExtractMetaTags(raw string) map[string]string {
	return Load(raw).MetaTags()
}
