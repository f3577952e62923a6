// Package fetch retrieves upstream pages, through the remote proxy when one is
// configured and directly otherwise.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/amaumene/gostreamfr/internal/constants"
	apperrors "github.com/amaumene/gostreamfr/internal/errors"
	"github.com/amaumene/gostreamfr/internal/metrics"
	"github.com/amaumene/gostreamfr/pkg/logger"
	"github.com/amaumene/gostreamfr/pkg/security"
)

// Fetch paths reported in Page.Via and FetchError.Via
const (
	ViaProxy  = "proxy"
	ViaDirect = "direct"
)

// ProxySource provides the current proxy endpoint.
type ProxySource interface {
	ProxyURL(ctx context.Context) (string, bool)
}

// Page is a fetched upstream document.
type Page struct {
	URL  string
	Body string
	Via  string
}

// Options configures a Fetcher.
type Options struct {
	ProxyMode string
	Timeout   time.Duration
}

// Fetcher implements proxy-first fetching with a single direct fallback.
type Fetcher struct {
	proxies      ProxySource
	proxyClient  *http.Client
	directClient *http.Client
	mode         string
	timeout      time.Duration
	logger       logger.Logger
	validator    *security.InputValidator
}

// NewFetcher builds a Fetcher. proxyClient talks to the fetch proxy and
// directClient to the site itself; they may be the same client.
func NewFetcher(proxies ProxySource, proxyClient, directClient *http.Client, opts Options, log logger.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.FetchTimeout
	}
	if opts.ProxyMode == "" {
		opts.ProxyMode = constants.ProxyModeURL
	}
	return &Fetcher{
		proxies:      proxies,
		proxyClient:  proxyClient,
		directClient: directClient,
		mode:         opts.ProxyMode,
		timeout:      opts.Timeout,
		logger:       log,
		validator:    security.NewInputValidator(),
	}
}

// Fetch returns the first non-empty successful body for target. The proxy is
// tried first when configured; any proxy failure falls through to one direct
// request. When that fails too the error is an *errors.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, target, referer string) (*Page, error) {
	if proxy, ok := f.proxies.ProxyURL(ctx); ok {
		body, status, err := f.viaProxy(ctx, proxy, target)
		if err == nil {
			return &Page{URL: target, Body: body, Via: ViaProxy}, nil
		}
		f.logger.Warnf("[Fetcher] proxy failed for %s (status %d), falling back to direct: %v", target, status, err)
	}

	body, status, err := f.direct(ctx, target, referer)
	if err != nil {
		return nil, &apperrors.FetchError{URL: target, Via: ViaDirect, StatusCode: status, Cause: err}
	}
	return &Page{URL: target, Body: body, Via: ViaDirect}, nil
}

func (f *Fetcher) viaProxy(ctx context.Context, proxy, target string) (string, int, error) {
	proxied, err := BuildProxyURL(proxy, target, f.mode)
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequest(http.MethodGet, proxied, nil)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to build proxy request")
	}
	req.Header.Set("Accept", constants.BrowserAccept)

	f.logger.Debugf("[Fetcher] GET %s via proxy %s", target, f.validator.MaskURL(proxy))
	return f.do(ctx, f.proxyClient, req, ViaProxy)
}

func (f *Fetcher) direct(ctx context.Context, target, referer string) (string, int, error) {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to build direct request")
	}
	setBrowserHeaders(req, referer)

	f.logger.Debugf("[Fetcher] GET %s directly", target)
	return f.do(ctx, f.directClient, req, ViaDirect)
}

func (f *Fetcher) do(ctx context.Context, client *http.Client, req *http.Request, via string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.UpstreamFetchDuration.WithLabelValues(via).Observe(time.Since(start).Seconds())
	}()

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		metrics.UpstreamFetchTotal.WithLabelValues(via, metrics.OutcomeError).Inc()
		return "", 0, errors.Wrapf(err, "request via %s failed", via)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamFetchTotal.WithLabelValues(via, metrics.OutcomeError).Inc()
		return "", resp.StatusCode, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := readBody(resp)
	if err != nil {
		metrics.UpstreamFetchTotal.WithLabelValues(via, metrics.OutcomeError).Inc()
		return "", resp.StatusCode, err
	}
	if len(body) == 0 {
		metrics.UpstreamFetchTotal.WithLabelValues(via, metrics.OutcomeError).Inc()
		return "", resp.StatusCode, errors.New("empty response body")
	}

	metrics.UpstreamFetchTotal.WithLabelValues(via, metrics.OutcomeSuccess).Inc()
	return string(body), resp.StatusCode, nil
}

// BuildProxyURL embeds target into the proxy endpoint. In "url" mode the whole
// target is passed; in "path" mode only its path and query.
func BuildProxyURL(proxy, target, mode string) (string, error) {
	p, err := url.Parse(proxy)
	if err != nil {
		return "", errors.Wrap(err, "invalid proxy URL")
	}

	q := p.Query()
	switch mode {
	case constants.ProxyModePath:
		t, err := url.Parse(target)
		if err != nil {
			return "", errors.Wrap(err, "invalid target URL")
		}
		path := t.EscapedPath()
		if path == "" {
			path = "/"
		}
		if t.RawQuery != "" {
			path += "?" + t.RawQuery
		}
		q.Set("path", path)
	default:
		q.Set("url", target)
	}
	p.RawQuery = q.Encode()
	return p.String(), nil
}

func setBrowserHeaders(req *http.Request, referer string) {
	req.Header.Set("User-Agent", constants.BrowserUserAgent)
	req.Header.Set("Accept", constants.BrowserAccept)
	req.Header.Set("Accept-Language", constants.BrowserLanguage)
	req.Header.Set("Accept-Encoding", constants.BrowserEncoding)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
}
