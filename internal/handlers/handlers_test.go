package handlers

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostreamfr/internal/adapters"
	"github.com/amaumene/gostreamfr/internal/cache"
	"github.com/amaumene/gostreamfr/internal/fetch"
	"github.com/amaumene/gostreamfr/internal/middleware"
	"github.com/amaumene/gostreamfr/internal/remoteconfig"
	"github.com/amaumene/gostreamfr/internal/services"
	"github.com/amaumene/gostreamfr/pkg/logger"
	"github.com/amaumene/gostreamfr/pkg/ratelimiter"
)

const catalogPage2 = `<html><body>
<ul class="post-lst">
  <li id="post-1" class="type-movies"><a href="/movies/a/"><h2 class="entry-title">A</h2></a></li>
  <li id="post-2" class="type-movies"><a href="/movies/b/"><h2 class="entry-title">B</h2></a></li>
  <li id="post-3" class="type-movies"><a href="/movies/c/"><h2 class="entry-title">C</h2></a></li>
</ul>
<nav class="pagination"><a href="/movies/">1</a><span class="current">2</span><a href="/movies/page/3/">3</a><a href="/movies/page/3/">NEXT</a></nav>
</body></html>`

const seriesDetail = `<html><body class="type-series"><article class="single">
<h1 class="entry-title">Dark Harbor</h1>
<div class="seasons-list"><a data-season="2">Saison 2</a><a data-season="1">Saison 1</a></div>
</article></body></html>`

const seasonListing = `<html><body class="type-series"><ul class="post-lst">
<li><a href="/episode/x/"><span class="num-epi">1x1</span><h2 class="entry-title">Pilot</h2></a></li>
</ul></body></html>`

type testSite struct {
	server *httptest.Server
	hits   int32
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	site := &testSite{}
	pages := map[string]string{
		"/movies/page/2/":               catalogPage2,
		"/series/dark-harbor/":          seriesDetail,
		"/season/dark-harbor-season-1/": seasonListing,
		"/season/dark-harbor-season-2/": seasonListing,
	}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&site.hits, 1)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(site.server.Close)
	return site
}

func newTestRouter(t *testing.T, site *testSite, withCache bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Discard()

	memory := cache.New(100, time.Minute)
	resolver := remoteconfig.NewResolver(remoteconfig.Options{DefaultBaseURL: site.server.URL}, memory, http.DefaultClient, log)
	fetcher := fetch.NewFetcher(resolver, http.DefaultClient, http.DefaultClient, fetch.Options{Timeout: 5 * time.Second}, log)
	scraper := services.NewScraper(resolver, fetcher, ratelimiter.NewTokenBucket(100, 100), log)

	container := &services.Container{Scraper: scraper, Logger: log, Cache: memory}

	var store middleware.ResponseStore
	if withCache {
		store = adapters.NewResponseCache(cache.New(100, time.Minute), nil, time.Minute, log)
	}
	return SetupRouter(New(container), store, log)
}

func get(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCatalogPage2(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := get(router, http.MethodGet, "/catalog?type=movies&page=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=600", w.Header().Get("Cache-Control"))

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), data["currentPage"])
	assert.Equal(t, "movies", data["catalogType"])
	assert.Equal(t, float64(len(data["results"].([]interface{}))), stats["resultsCount"])
	assert.Equal(t, "direct", stats["source"])
}

func TestCategoryMissingPath(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := get(router, http.MethodGet, "/category")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "path")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestSeriesAllSeasons(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := get(router, http.MethodGet, "/series?series=dark-harbor&season=all")
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	available := data["series"].(map[string]interface{})["availableSeasons"].([]interface{})
	seasons := data["seasons"].([]interface{})
	require.Len(t, seasons, len(available))
	for i, s := range seasons {
		assert.Equal(t, float64(i+1), s.(map[string]interface{})["seasonNumber"])
	}
}

func TestUpstreamNotFound(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := get(router, http.MethodGet, "/movie?slug=missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := get(router, method, "/catalog")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "Method not allowed")
	}
}

func TestPreflight(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := get(router, http.MethodOptions, "/catalog")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := get(router, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := get(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["data"].(map[string]interface{})["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)
	get(router, http.MethodGet, "/health")

	w := get(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestResponseCache(t *testing.T) {
	site := newTestSite(t)
	router := newTestRouter(t, site, true)

	first := get(router, http.MethodGet, "/catalog?page=2&type=movies")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	hits := atomic.LoadInt32(&site.hits)

	// Same parameters in a different order hit the cache
	second := get(router, http.MethodGet, "/catalog?type=movies&page=2")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, hits, atomic.LoadInt32(&site.hits))

	// Errors are not cached
	get(router, http.MethodGet, "/category")
	w := get(router, http.MethodGet, "/category")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestGzip(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	router.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"success":true`))
}

func TestRecovery(t *testing.T) {
	router := newTestRouter(t, newTestSite(t), false)
	router.GET("/boom", func(c *gin.Context) {
		panic("extractor exploded")
	})

	w := get(router, http.MethodGet, "/boom")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, w.Body.String(), "exploded")
}
