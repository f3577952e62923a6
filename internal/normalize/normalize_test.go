package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURL(t *testing.T) {
	got := ImageURL("//img.example.com/w200/x.jpg")
	require.NotNil(t, got)
	assert.Equal(t, "https://img.example.com/w500/x.jpg", *got)

	assert.Nil(t, ImageURL(""))
	assert.Nil(t, ImageURL("   "))

	got = ImageURL("https://a/b.jpg")
	require.NotNil(t, got)
	assert.Equal(t, "https://a/b.jpg", *got)

	got = ImageURL("https://img.example.com/original/x.jpg")
	require.NotNil(t, got)
	assert.Equal(t, "https://img.example.com/original/x.jpg", *got)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://site.example/series/x/", ResolveURL("https://site.example", "/series/x/"))
	assert.Equal(t, "https://cdn.example/a.jpg", ResolveURL("https://site.example", "//cdn.example/a.jpg"))
	assert.Equal(t, "https://other.example/", ResolveURL("https://site.example", "https://other.example/"))
	assert.Equal(t, "", ResolveURL("https://site.example", " "))
}

func TestClassTokens(t *testing.T) {
	assert.Equal(t, []string{"action", "comedy"},
		ClassTokens("category-action category-comedy tag-funny", "category-"))
	assert.Equal(t, []string{"jane doe"}, ClassTokens("post cast-jane-doe", "cast-"))
	assert.Empty(t, ClassTokens("cast_tv-jane-doe", "cast-"))
	assert.Empty(t, ClassTokens("category-", "category-"))
	assert.NotNil(t, ClassTokens("", "tag-"))
}

func TestFirstClassToken(t *testing.T) {
	classes := "cast-movie-actor cast_tv-series-actor"
	assert.Equal(t, []string{"series actor"}, FirstClassToken(classes, "cast_tv-", "cast-"))
	assert.Equal(t, []string{"movie actor"}, FirstClassToken(classes, "cast-", "cast_tv-"))
	assert.Empty(t, FirstClassToken("post", "cast-"))
}

func TestParsePageRangeSpec(t *testing.T) {
	assert.Equal(t, []int{2, 4, 5, 6}, ParsePageRangeSpec("2,4-6", 10).Numbers)
	assert.Equal(t, RangeAll, ParsePageRangeSpec("all", 10).Kind)
	assert.Equal(t, RangeLatest, ParsePageRangeSpec(" Latest ", 10).Kind)
	assert.Equal(t, []int{1, 2, 3}, ParsePageRangeSpec("3-1,2,2", 10).Numbers)
	assert.Equal(t, []int{9, 10}, ParsePageRangeSpec("9-12,0", 10).Numbers)
	assert.Equal(t, []int{1, 7}, ParsePageRangeSpec("1,x,7,a-b", 0).Numbers)
	assert.Empty(t, ParsePageRangeSpec("", 10).Numbers)
}

func TestRangeSpec_Resolve(t *testing.T) {
	available := []int{3, 1, 2}

	assert.Equal(t, []int{1, 2, 3}, ParsePageRangeSpec("all", 0).Resolve(available))
	assert.Equal(t, []int{3}, ParsePageRangeSpec("latest", 0).Resolve(available))
	assert.Equal(t, []int{2, 3}, ParsePageRangeSpec("2-5", 0).Resolve(available))
	assert.Equal(t, []int{4}, ParsePageRangeSpec("4", 0).Resolve(nil))
	assert.Empty(t, ParsePageRangeSpec("latest", 0).Resolve(nil))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://site.example/movies/", PageURL("https://site.example/", "movies", 1))
	assert.Equal(t, "https://site.example/movies/page/2/", PageURL("https://site.example", "/movies/", 2))
	assert.Equal(t, "https://site.example/genre/action/page/3/", PageURL("https://site.example", "genre/action", 3))
	assert.Equal(t, "https://site.example/", PageURL("https://site.example", "", 1))
	assert.Equal(t, "https://site.example/page/4/", PageURL("https://site.example", "", 4))
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "https://site.example/?s=the+office", WithQuery("https://site.example/", "s", "the office"))
	assert.Equal(t, "https://site.example/x/", WithQuery("https://site.example/x/", "type", ""))
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a \n b\t\tc "))
	assert.Equal(t, 12, FirstNumber("Season 12 (2020)"))
	assert.Equal(t, 0, FirstNumber("none"))
	assert.True(t, IsDigits("42"))
	assert.False(t, IsDigits("4a"))
	assert.False(t, IsDigits(""))
}
