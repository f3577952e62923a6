// Package remoteconfig resolves the site origin and the fetch proxy from
// hosted plain-text files, caching each value for a fixed time.
package remoteconfig

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amaumene/gostreamfr/internal/cache"
	"github.com/amaumene/gostreamfr/internal/constants"
	"github.com/amaumene/gostreamfr/internal/metrics"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

// Sources reads remote config files are limited to this many bytes.
const maxSourceBytes = 4096

// Options configures a Resolver.
type Options struct {
	BaseURLSource  string
	ProxyURLSource string
	DefaultBaseURL string
	TTL            time.Duration
}

// Resolver returns the current base and proxy URLs.
type Resolver struct {
	opts       Options
	cache      *cache.LRUCache
	httpClient *http.Client
	logger     logger.Logger
}

func NewResolver(opts Options, c *cache.LRUCache, httpClient *http.Client, log logger.Logger) *Resolver {
	if opts.TTL <= 0 {
		opts.TTL = constants.RemoteConfigTTL
	}
	opts.DefaultBaseURL = clean(opts.DefaultBaseURL)
	return &Resolver{
		opts:       opts,
		cache:      c,
		httpClient: httpClient,
		logger:     log,
	}
}

// BaseURL returns the site origin without a trailing slash. It never fails:
// an unreachable source yields the configured default, cached like a real value.
func (r *Resolver) BaseURL(ctx context.Context) string {
	v := r.cache.GetOrRefresh(constants.RemoteKeyBaseURL, r.opts.TTL, func() interface{} {
		value, err := r.fetch(ctx, r.opts.BaseURLSource)
		if err != nil || value == "" {
			if err != nil {
				r.logger.Warnf("[RemoteConfig] base URL unavailable, using %s: %v", r.opts.DefaultBaseURL, err)
			}
			metrics.RemoteConfigRefreshTotal.WithLabelValues("base_url", metrics.OutcomeFallback).Inc()
			return r.opts.DefaultBaseURL
		}
		r.logger.Debugf("[RemoteConfig] base URL refreshed: %s", value)
		metrics.RemoteConfigRefreshTotal.WithLabelValues("base_url", metrics.OutcomeSuccess).Inc()
		return value
	})
	return v.(string)
}

// ProxyURL returns the proxy endpoint and whether one is configured. A failed
// refresh caches the empty value, meaning direct fetches only until the next refresh.
func (r *Resolver) ProxyURL(ctx context.Context) (string, bool) {
	v := r.cache.GetOrRefresh(constants.RemoteKeyProxyURL, r.opts.TTL, func() interface{} {
		value, err := r.fetch(ctx, r.opts.ProxyURLSource)
		if err != nil {
			r.logger.Warnf("[RemoteConfig] proxy URL unavailable, fetching directly: %v", err)
			metrics.RemoteConfigRefreshTotal.WithLabelValues("proxy_url", metrics.OutcomeFallback).Inc()
			return ""
		}
		metrics.RemoteConfigRefreshTotal.WithLabelValues("proxy_url", metrics.OutcomeSuccess).Inc()
		return value
	})
	proxy := v.(string)
	return proxy, proxy != ""
}

// Invalidate drops both cached values so the next call refreshes.
func (r *Resolver) Invalidate() {
	r.cache.Delete(constants.RemoteKeyBaseURL)
	r.cache.Delete(constants.RemoteKeyProxyURL)
}

func (r *Resolver) fetch(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RemoteConfigTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", source, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s returned status %d", source, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return clean(string(body)), nil
}

func clean(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}
