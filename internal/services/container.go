// Package services assembles endpoint responses: it validates input, resolves
// the site origin, fetches pages, runs the extractors and shapes the envelope.
package services

import (
	"context"

	"github.com/amaumene/gostreamfr/internal/adapters"
	"github.com/amaumene/gostreamfr/internal/cache"
	"github.com/amaumene/gostreamfr/internal/config"
	"github.com/amaumene/gostreamfr/internal/database"
	"github.com/amaumene/gostreamfr/internal/fetch"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	Config        *config.Config
	Cache         *cache.LRUCache
	DB            database.Database
	ResponseCache *adapters.ResponseCache
	Resolver      OriginResolver
	Fetcher       PageFetcher
	Scraper       *Scraper
	Cleanup       *CleanupService
	Logger        logger.Logger
}

// OriginResolver provides the current site origin.
type OriginResolver interface {
	BaseURL(ctx context.Context) string
}

// PageFetcher retrieves one upstream page.
type PageFetcher interface {
	Fetch(ctx context.Context, target, referer string) (*fetch.Page, error)
}
