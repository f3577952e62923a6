package extract

import (
	"regexp"
	"strings"

	"github.com/amaumene/gostreamfr/internal/constants"
	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/normalize"
)

// Class token prefixes
const (
	prefixCategory    = "category-"
	prefixTag         = "tag-"
	prefixCast        = "cast-"
	prefixCastTV      = "cast_tv-"
	prefixDirectors   = "directors-"
	prefixDirectorsTV = "directors_tv-"
	prefixCountry     = "country-"
	prefixYear        = "annee-"
	prefixType        = "type-"
)

const maxCast = constants.MaxCastMembers

var ratingValue = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ContentType maps the first type-* token to movie, series or post.
func ContentType(classString string) string {
	types := normalize.ClassTokens(classString, prefixType)
	if len(types) == 0 {
		return models.ContentTypeUnknown
	}
	t := strings.ToLower(types[0])
	switch {
	case strings.Contains(t, "movie") || strings.Contains(t, "film"):
		return models.ContentTypeMovie
	case strings.Contains(t, "serie") || strings.Contains(t, "tv"):
		return models.ContentTypeSeries
	default:
		return models.ContentTypePost
	}
}

// Classify decodes every class-token attribute. Series look for the _tv cast
// and director prefixes first, everything else for the plain ones first.
func Classify(classString string) models.Classification {
	contentType := ContentType(classString)

	castPrefixes := []string{prefixCast, prefixCastTV}
	directorPrefixes := []string{prefixDirectors, prefixDirectorsTV}
	if contentType == models.ContentTypeSeries {
		castPrefixes = []string{prefixCastTV, prefixCast}
		directorPrefixes = []string{prefixDirectorsTV, prefixDirectors}
	}

	cast := truncateCast(normalize.FirstClassToken(classString, castPrefixes...))

	return models.Classification{
		ContentType: contentType,
		Categories:  normalize.ClassTokens(classString, prefixCategory),
		Tags:        normalize.ClassTokens(classString, prefixTag),
		Cast:        cast,
		Directors:   normalize.FirstClassToken(classString, directorPrefixes...),
		Countries:   normalize.ClassTokens(classString, prefixCountry),
	}
}

// yearToken returns the first annee-* value.
func yearToken(classString string) string {
	if years := normalize.ClassTokens(classString, prefixYear); len(years) > 0 {
		return years[0]
	}
	return ""
}

func parseRating(text string) string {
	return strings.ReplaceAll(ratingValue.FindString(text), ",", ".")
}

// PageClassification decodes the class tokens of the page body and its first article.
func (d *Document) PageClassification() models.Classification {
	return Classify(classOf(d.doc.Find("body")) + " " + classOf(d.doc.Find("article").First()))
}
