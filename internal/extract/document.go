// Package extract turns upstream HTML into the records in internal/models.
// Every operation is permissive: missing markup yields empty values, never an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/amaumene/gostreamfr/internal/normalize"
)

// Document is a parsed upstream page.
type Document struct {
	doc  *goquery.Document
	base string
}

// Load parses raw HTML. It never fails: unparsable input gives an empty document.
func Load(raw string) *Document {
	return LoadWithBase(raw, "")
}

// LoadWithBase parses raw HTML and resolves relative links against base.
func LoadWithBase(raw, base string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{doc: doc, base: strings.TrimRight(base, "/")}
}

// Base returns the origin relative links are resolved against.
func (d *Document) Base() string {
	return d.base
}

func (d *Document) resolve(href string) string {
	return normalize.ResolveURL(d.base+"/", href)
}

func (d *Document) image(s *goquery.Selection) *string {
	src := attrFirst(s, "data-src", "data-lazy-src", "src")
	if strings.HasPrefix(src, "data:") {
		src = attrFirst(s, "data-src", "data-lazy-src")
	}
	if src == "" {
		return nil
	}
	return normalize.ImageURL(d.resolve(src))
}

// firstMatch returns the first non-empty selection among selectors.
func firstMatch(s *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := s.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return s.Slice(0, 0)
}

// textOf returns the cleaned text of the first selector that has any.
func textOf(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := normalize.CleanText(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func attrFirst(s *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v, ok := s.Attr(n); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func classOf(s *goquery.Selection) string {
	c, _ := s.Attr("class")
	return c
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
