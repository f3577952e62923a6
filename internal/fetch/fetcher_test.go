package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/gostreamfr/internal/errors"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

type staticProxy string

func (p staticProxy) ProxyURL(context.Context) (string, bool) {
	return string(p), p != ""
}

func newFetcher(proxy string, mode string) *Fetcher {
	return NewFetcher(staticProxy(proxy), http.DefaultClient, http.DefaultClient,
		Options{ProxyMode: mode, Timeout: 5 * time.Second}, logger.Discard())
}

func TestFetch_ProxySuccess(t *testing.T) {
	var gotTarget string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("url")
		w.Write([]byte("<html>proxied</html>"))
	}))
	defer proxy.Close()

	f := newFetcher(proxy.URL, "url")
	page, err := f.Fetch(context.Background(), "https://site.example/movies/page/2/", "")
	require.NoError(t, err)

	assert.Equal(t, ViaProxy, page.Via)
	assert.Equal(t, "<html>proxied</html>", page.Body)
	assert.Equal(t, "https://site.example/movies/page/2/", gotTarget)
}

func TestFetch_ProxyFailureFallsBackToDirect(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer proxy.Close()

	var ua, referer string
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		referer = r.Header.Get("Referer")
		w.Write([]byte("<html>direct</html>"))
	}))
	defer site.Close()

	f := newFetcher(proxy.URL, "url")
	page, err := f.Fetch(context.Background(), site.URL+"/series/x/", site.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, ViaDirect, page.Via)
	assert.Equal(t, "<html>direct</html>", page.Body)
	assert.Contains(t, ua, "Mozilla/5.0")
	assert.Equal(t, site.URL+"/", referer)
}

func TestFetch_EmptyProxyBodyFallsBack(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer proxy.Close()
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer site.Close()

	page, err := newFetcher(proxy.URL, "url").Fetch(context.Background(), site.URL, "")
	require.NoError(t, err)
	assert.Equal(t, ViaDirect, page.Via)
}

func TestFetch_NoProxyGoesDirect(t *testing.T) {
	var hits int32
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("ok"))
	}))
	defer site.Close()

	page, err := newFetcher("", "url").Fetch(context.Background(), site.URL, "")
	require.NoError(t, err)
	assert.Equal(t, ViaDirect, page.Via)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetch_BothFail(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer proxy.Close()
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer site.Close()

	_, err := newFetcher(proxy.URL, "url").Fetch(context.Background(), site.URL+"/series/missing/", "")
	require.Error(t, err)

	var fe *apperrors.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ViaDirect, fe.Via)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, site.URL+"/series/missing/", fe.URL)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestFetch_UnreachableHost(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := site.URL
	site.Close()

	_, err := newFetcher("", "url").Fetch(context.Background(), target, "")
	var fe *apperrors.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 0, fe.StatusCode)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))
}

func TestFetch_DecodesCompressedBodies(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte("gzipped page"))
	zw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	bw.Write([]byte("brotli page"))
	bw.Close()

	tests := []struct {
		encoding string
		body     []byte
		want     string
	}{
		{"gzip", gz.Bytes(), "gzipped page"},
		{"br", br.Bytes(), "brotli page"},
		{"", []byte("plain page"), "plain page"},
	}

	for _, tt := range tests {
		t.Run("encoding "+tt.encoding, func(t *testing.T) {
			site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				w.Write(tt.body)
			}))
			defer site.Close()

			page, err := newFetcher("", "url").Fetch(context.Background(), site.URL, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Body)
		})
	}
}

func TestBuildProxyURL(t *testing.T) {
	got, err := BuildProxyURL("https://proxy.example/fetch", "https://site.example/?s=the office", "url")
	require.NoError(t, err)
	u, _ := url.Parse(got)
	assert.Equal(t, "https://site.example/?s=the office", u.Query().Get("url"))

	got, err = BuildProxyURL("https://proxy.example/fetch?key=1", "https://site.example/series/x/?type=movie", "path")
	require.NoError(t, err)
	u, _ = url.Parse(got)
	assert.Equal(t, "/series/x/?type=movie", u.Query().Get("path"))
	assert.Equal(t, "1", u.Query().Get("key"))
}
