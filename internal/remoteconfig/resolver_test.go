package remoteconfig

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaumene/gostreamfr/internal/cache"
	"github.com/amaumene/gostreamfr/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newResolver(t *testing.T, opts Options) (*Resolver, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.New(10, time.Hour)
	c.SetClock(clk.now)
	return NewResolver(opts, c, http.DefaultClient, logger.Discard()), clk
}

func TestBaseURL_TrimsAndCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("  https://site.example/// \n"))
	}))
	defer srv.Close()

	r, clk := newResolver(t, Options{BaseURLSource: srv.URL, DefaultBaseURL: "https://fallback.example", TTL: 5 * time.Minute})
	ctx := context.Background()

	assert.Equal(t, "https://site.example", r.BaseURL(ctx))
	clk.t = clk.t.Add(4 * time.Minute)
	assert.Equal(t, "https://site.example", r.BaseURL(ctx))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	clk.t = clk.t.Add(2 * time.Minute)
	r.BaseURL(ctx)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestBaseURL_FallbackIsCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r, _ := newResolver(t, Options{BaseURLSource: srv.URL, DefaultBaseURL: "https://fallback.example/", TTL: time.Minute})

	assert.Equal(t, "https://fallback.example", r.BaseURL(context.Background()))
	assert.Equal(t, "https://fallback.example", r.BaseURL(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestBaseURL_EmptySourceUsesDefault(t *testing.T) {
	r, _ := newResolver(t, Options{DefaultBaseURL: "https://fallback.example"})
	assert.Equal(t, "https://fallback.example", r.BaseURL(context.Background()))
}

func TestProxyURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("https://proxy.example/fetch/\n"))
	}))
	defer srv.Close()

	r, _ := newResolver(t, Options{ProxyURLSource: srv.URL})
	proxy, ok := r.ProxyURL(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "https://proxy.example/fetch", proxy)
}

func TestProxyURL_FailureMeansNoProxy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r, _ := newResolver(t, Options{ProxyURLSource: srv.URL})
	proxy, ok := r.ProxyURL(context.Background())
	assert.False(t, ok)
	assert.Empty(t, proxy)
}

func TestInvalidate(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("https://site.example"))
	}))
	defer srv.Close()

	r, _ := newResolver(t, Options{BaseURLSource: srv.URL, DefaultBaseURL: "https://fallback.example"})
	r.BaseURL(context.Background())
	r.Invalidate()
	r.BaseURL(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
