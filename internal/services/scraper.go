package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gostreamfr/internal/constants"
	apperrors "github.com/amaumene/gostreamfr/internal/errors"
	"github.com/amaumene/gostreamfr/internal/extract"
	"github.com/amaumene/gostreamfr/internal/fetch"
	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/pkg/logger"
	"github.com/amaumene/gostreamfr/pkg/ratelimiter"
	"github.com/amaumene/gostreamfr/pkg/security"
)

// Scraper implements one assembler per endpoint.
type Scraper struct {
	resolver    OriginResolver
	fetcher     PageFetcher
	rateLimiter ratelimiter.RateLimiter
	validator   *security.InputValidator
	logger      logger.Logger
	now         func() time.Time
}

// NewScraper wires the assemblers. episodeLimiter paces the per-episode server fan-out.
func NewScraper(resolver OriginResolver, fetcher PageFetcher, episodeLimiter ratelimiter.RateLimiter, log logger.Logger) *Scraper {
	if episodeLimiter == nil {
		episodeLimiter = ratelimiter.NewTokenBucket(constants.EpisodeRateBurst, constants.EpisodeRate)
	}
	return &Scraper{
		resolver:    resolver,
		fetcher:     fetcher,
		rateLimiter: episodeLimiter,
		validator:   security.NewInputValidator(),
		logger:      log,
		now:         time.Now,
	}
}

// page is a fetched and parsed upstream document.
type page struct {
	doc *extract.Document
	raw string
	via string
}

// detach keeps a scrape running after the client goes away.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (s *Scraper) load(ctx context.Context, base, target, referer, what string) (*page, error) {
	if referer == "" {
		referer = base + "/"
	}
	p, err := s.fetcher.Fetch(ctx, target, referer)
	if err != nil {
		s.logger.Warnf("[Scraper] failed to fetch %s: %v", what, err)
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("Failed to fetch %s", what), err)
	}
	return &page{
		doc: extract.LoadWithBase(p.Body, base),
		raw: p.Body,
		via: p.Via,
	}, nil
}

func (s *Scraper) stats(start time.Time, results, pageNum int, via string) models.Stats {
	return models.Stats{
		ResultsCount: results,
		Page:         pageNum,
		Source:       via,
		DurationMs:   s.now().Sub(start).Milliseconds(),
	}
}

// parsePage validates the page query value. Empty means the first page.
func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("page", "must be a positive integer")
	}
	if n < 1 || n > constants.MaxPageNumber {
		return 0, apperrors.NewValidationError("page", fmt.Sprintf("must be between 1 and %d", constants.MaxPageNumber))
	}
	return n, nil
}

func (s *Scraper) validateTypeFilter(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	filter, err := s.validator.ValidateSlug(raw)
	if err != nil {
		return "", apperrors.NewValidationError("type", err.Error())
	}
	return filter, nil
}

func (s *Scraper) listing(p *page, pageNum int) models.ListingData {
	return models.ListingData{
		PaginationInfo: p.doc.Pagination(pageNum),
		Results:        p.doc.ContentList(""),
	}
}

var _ PageFetcher = (*fetch.Fetcher)(nil)
