package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/amaumene/gostreamfr/internal/adapters"
	"github.com/amaumene/gostreamfr/internal/cache"
	"github.com/amaumene/gostreamfr/internal/config"
	"github.com/amaumene/gostreamfr/internal/constants"
	"github.com/amaumene/gostreamfr/internal/database"
	"github.com/amaumene/gostreamfr/internal/fetch"
	"github.com/amaumene/gostreamfr/internal/handlers"
	"github.com/amaumene/gostreamfr/internal/middleware"
	"github.com/amaumene/gostreamfr/internal/remoteconfig"
	"github.com/amaumene/gostreamfr/internal/services"
	"github.com/amaumene/gostreamfr/pkg/httputil"
	"github.com/amaumene/gostreamfr/pkg/logger"
	"github.com/amaumene/gostreamfr/pkg/ratelimiter"
	"github.com/amaumene/gostreamfr/pkg/security"
	"github.com/amaumene/gostreamfr/pkg/ssl"
)

const cacheCleanupInterval = 10 * time.Minute

var (
	Logger           logger.Logger
	Config           *config.Config
	DB               *database.BoltDB
	memoryCache      *cache.LRUCache
	responseStore    middleware.ResponseStore
	handler          *handlers.Handler
	serviceContainer *services.Container
)

func InitializeConfig() {
	var err error
	Config, err = config.Load()
	if err != nil {
		// The logger level comes from the config, so fall back to the default one here
		logger.New().Fatalf("[App] invalid configuration: %v", err)
	}
}

func InitializeLogger() {
	Logger = logger.NewWithWriter(os.Stderr, Config.LogLevel)
	if !logger.IsValidLevel(Config.LogLevel) {
		Logger.Warnf("[App] warning: unknown log level '%s', defaulting to info", Config.LogLevel)
	}
}

func InitializeDatabase() {
	if !Config.ResponseCache || Config.DatabasePath == "" {
		Logger.Infof("[App] persistent response cache disabled")
		return
	}

	var err error
	DB, err = database.NewBolt(Config.DatabasePath)
	if err != nil {
		Logger.Fatalf("failed to initialize database: %v", err)
	}

	Logger.Infof("[App] bbolt database opened at %s", Config.DatabasePath)
}

func InitializeServices(ctx context.Context) {
	timeout := Config.RequestTimeout.Std()
	memoryCache = cache.New(Config.CacheSize, Config.CacheTTL.Std())

	resolver := remoteconfig.NewResolver(remoteconfig.Options{
		BaseURLSource:  Config.BaseURLSource,
		ProxyURLSource: Config.ProxyURLSource,
		DefaultBaseURL: Config.DefaultBaseURL,
		TTL:            Config.RemoteConfigTTL.Std(),
	}, memoryCache, httputil.NewHTTPClient(constants.RemoteConfigTimeout), Logger)

	directClient := newDirectClient(timeout)
	fetcher := fetch.NewFetcher(resolver, httputil.NewHTTPClient(timeout), directClient, fetch.Options{
		ProxyMode: Config.ProxyMode,
		Timeout:   timeout,
	}, Logger)

	rate := int64(Config.EpisodeRate)
	if rate <= 0 {
		rate = constants.EpisodeRate
	}
	scraper := services.NewScraper(resolver, fetcher, ratelimiter.NewTokenBucket(rate, rate), Logger)

	serviceContainer = &services.Container{
		Config:   Config,
		Cache:    memoryCache,
		Resolver: resolver,
		Fetcher:  fetcher,
		Scraper:  scraper,
		Logger:   Logger,
	}

	if Config.ResponseCache {
		var store database.Database
		if DB != nil {
			store = DB
			serviceContainer.DB = DB
		}
		rc := adapters.NewResponseCache(cache.New(Config.CacheSize, Config.CacheTTL.Std()), store, Config.CacheTTL.Std(), Logger)
		serviceContainer.ResponseCache = rc
		responseStore = rc

		cleanup := services.NewCleanupService(rc, Logger)
		cleanup.SetRetentionPeriod(constants.ResponseRetention)
		if err := cleanup.Start(ctx); err != nil {
			Logger.Errorf("[App] failed to start cleanup service: %v", err)
		}
		serviceContainer.Cleanup = cleanup
	}

	memoryCache.StartCleanup(ctx, cacheCleanupInterval)

	handler = handlers.New(serviceContainer)

	Logger.Infof("[App] services initialized successfully")
}

// newDirectClient picks the client used when no proxy is configured or the
// proxy fetch fails.
func newDirectClient(timeout time.Duration) *http.Client {
	if Config.OutboundProxy != "" {
		client, err := httputil.NewProxiedHTTPClient(timeout, Config.OutboundProxy)
		if err != nil {
			Logger.Fatalf("failed to configure outbound proxy: %v", err)
		}
		Logger.Infof("[App] direct fetches go through outbound proxy %s", security.NewInputValidator().MaskURL(Config.OutboundProxy))
		return client
	}
	if Config.BrowserTLS {
		Logger.Infof("[App] direct fetches use a browser TLS fingerprint")
		return httputil.NewBrowserTLSClient(timeout)
	}
	return httputil.NewHTTPClient(timeout)
}

// InitializeTLS returns nil when the server should listen with plain HTTP.
func InitializeTLS(ctx context.Context) *tls.Config {
	if !Config.TLSEnabled() {
		return nil
	}

	cert := ssl.NewCertificate(ssl.Options{
		CertFile: Config.TLSCertFile,
		KeyFile:  Config.TLSKeyFile,
		CertURL:  Config.TLSCertURL,
		KeyURL:   Config.TLSKeyURL,
		CacheDir: Config.TLSCacheDir,
	}, httputil.NewHTTPClient(constants.RemoteConfigTimeout), Logger)

	if err := cert.Setup(ctx); err != nil {
		Logger.Fatalf("failed to set up TLS certificate: %v", err)
	}
	tlsConfig, err := cert.TLSConfig()
	if err != nil {
		Logger.Fatalf("failed to load TLS certificate: %v", err)
	}
	return tlsConfig
}

func Shutdown() {
	if serviceContainer != nil && serviceContainer.Cleanup != nil {
		serviceContainer.Cleanup.Stop()
	}
	if DB != nil {
		if err := DB.Close(); err != nil {
			Logger.Errorf("[App] failed to close database: %v", err)
		}
	}
}
