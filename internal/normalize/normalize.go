// Package normalize holds the small pure transforms applied to strings pulled
// out of upstream markup.
package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/amaumene/gostreamfr/internal/constants"
)

var (
	thumbSizeSegment = regexp.MustCompile(`/w\d+/`)
	digitRun         = regexp.MustCompile(`\d+`)
	spaceRun         = regexp.MustCompile(`\s+`)
)

// ImageURL returns an absolute image URL with the thumbnail size segment
// forced to the preferred size, or nil for empty input.
func ImageURL(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	raw = thumbSizeSegment.ReplaceAllString(raw, "/"+constants.PreferredImageSize+"/")
	return &raw
}

// ResolveURL makes href absolute against base. Protocol-relative links get
// https; unparsable input is returned trimmed.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() || base == "" {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// ClassTokens returns the values of every class token starting with prefix,
// with the prefix stripped and hyphens turned into spaces.
func ClassTokens(classString, prefix string) []string {
	out := []string{}
	for _, token := range strings.Fields(classString) {
		if !strings.HasPrefix(token, prefix) || len(token) == len(prefix) {
			continue
		}
		out = append(out, Humanize(token[len(prefix):]))
	}
	return out
}

// FirstClassToken tries each prefix in order and returns the tokens of the
// first one that matches anything.
func FirstClassToken(classString string, prefixes ...string) []string {
	for _, p := range prefixes {
		if tokens := ClassTokens(classString, p); len(tokens) > 0 {
			return tokens
		}
	}
	return []string{}
}

// Humanize turns a slug fragment into words.
func Humanize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "-", " "))
}

// CleanText collapses runs of whitespace and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// FirstNumber returns the first run of digits in s, or 0.
func FirstNumber(s string) int {
	m := digitRun.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// IsDigits reports whether s is a non-empty string of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PageURL builds a listing URL: {base}/{section}/ for the first page and
// {base}/{section}/page/{n}/ after that. An empty section addresses the root.
func PageURL(base, section string, page int) string {
	base = strings.TrimRight(base, "/")
	section = strings.Trim(section, "/")

	prefix := base + "/"
	if section != "" {
		prefix += section + "/"
	}
	if page <= 1 {
		return prefix
	}
	return fmt.Sprintf("%spage/%d/", prefix, page)
}

// WithQuery appends key=value to rawURL, replacing any existing value.
// Empty values leave the URL untouched.
func WithQuery(rawURL, key, value string) string {
	if value == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
