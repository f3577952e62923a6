package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/gostreamfr/internal/constants"
	apperrors "github.com/amaumene/gostreamfr/internal/errors"
	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/normalize"
)

// defaultSeasons is used when the request names no seasons.
const defaultSeasons = "latest"

// SeriesRequest holds the series endpoint parameters.
type SeriesRequest struct {
	Slug    string
	Seasons string
	Servers bool
}

// Series returns the series header, the requested seasons in ascending order
// and, when asked, every episode's video servers. Episode pages are fetched
// one at a time, paced by the episode rate limiter.
func (s *Scraper) Series(ctx context.Context, req SeriesRequest) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if req.Slug == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("slug")
	}
	slug, err := s.validator.ValidateSlug(req.Slug)
	if err != nil {
		return models.Envelope{}, apperrors.NewValidationError("slug", err.Error())
	}
	seasonSpec := req.Seasons
	if seasonSpec == "" {
		seasonSpec = defaultSeasons
	}

	base := s.resolver.BaseURL(ctx)
	seriesURL := fmt.Sprintf(constants.SeriesPathFormat, base, slug)
	p, err := s.load(ctx, base, seriesURL, "", "series "+slug)
	if err != nil {
		return models.Envelope{}, err
	}
	meta := p.doc.SeriesMetadata()

	available := make([]int, 0, len(meta.AvailableSeasons))
	for _, ref := range meta.AvailableSeasons {
		available = append(available, ref.SeasonNumber)
	}
	// Parse without an upper bound so out-of-range numbers can be reported
	spec := normalize.ParsePageRangeSpec(seasonSpec, 0)
	if spec.Kind == normalize.RangeList && len(spec.Numbers) == 0 {
		return models.Envelope{}, apperrors.NewValidationError("seasons", "expected 'all', 'latest' or a list such as '1,3-5'")
	}
	numbers := spec.Resolve(available)
	if spec.Kind == normalize.RangeList {
		numbers = withinTotal(numbers, meta.TotalSeasons)
		if len(numbers) == 0 {
			return models.Envelope{}, apperrors.NewValidationError("seasons",
				fmt.Sprintf("season(s) %s not available, series has %s", joinInts(spec.Numbers), describeSeasons(available)))
		}
	}

	stats := models.SeriesStats{SeasonsRequested: spec.String()}
	seasons := make([]models.SeasonData, 0, len(numbers))
	for _, n := range numbers {
		season := s.season(ctx, base, slug, seriesURL, n, &stats)
		if req.Servers {
			s.attachServers(ctx, seriesURL, &season, &stats)
		}
		stats.EpisodesCount += len(season.Episodes)
		seasons = append(seasons, season)
	}

	stats.SeasonsCount = len(seasons)
	stats.Stats = s.stats(start, len(seasons), 0, p.via)
	s.logger.Infof("[Scraper] series %s: %d seasons, %d episodes, %d servers", slug, stats.SeasonsCount, stats.EpisodesCount, stats.ServersCount)

	return models.Success(models.SeriesData{
		Slug:    slug,
		URL:     seriesURL,
		Series:  meta,
		Seasons: seasons,
	}, stats), nil
}

// withinTotal drops numbers above total. A zero total keeps everything.
func withinTotal(numbers []int, total int) []int {
	if total <= 0 {
		return numbers
	}
	out := numbers[:0:0]
	for _, n := range numbers {
		if n <= total {
			out = append(out, n)
		}
	}
	return out
}

func describeSeasons(available []int) string {
	if len(available) == 0 {
		return "no seasons"
	}
	return "seasons " + joinInts(available)
}

func joinInts(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// season fetches one season listing. A failed fetch yields an empty season so
// the response still lists every requested season.
func (s *Scraper) season(ctx context.Context, base, slug, referer string, n int, stats *models.SeriesStats) models.SeasonData {
	target := fmt.Sprintf(constants.SeasonPathFormat, base, slug, n)
	p, err := s.load(ctx, base, target, referer, fmt.Sprintf("season %d of %s", n, slug))
	if err != nil {
		stats.FailedFetches++
		return models.SeasonData{
			SeasonNumber: n,
			Episodes:     []models.Episode{},
			Categories:   []string{},
			Tags:         []string{},
			Cast:         []string{},
		}
	}
	return p.doc.SeasonEpisodes(n)
}

func (s *Scraper) attachServers(ctx context.Context, referer string, season *models.SeasonData, stats *models.SeriesStats) {
	for i := range season.Episodes {
		ep := &season.Episodes[i]
		ep.Servers = []models.VideoServer{}
		if ep.URL == "" {
			continue
		}
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return
		}
		p, err := s.load(ctx, "", ep.URL, referer, "episode "+ep.URL)
		if err != nil {
			stats.FailedFetches++
			continue
		}
		ep.Servers = p.doc.VideoServers()
		stats.ServersCount += len(ep.Servers)
	}
}

// Movie returns a movie's header, classification and video servers.
func (s *Scraper) Movie(ctx context.Context, rawSlug string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if rawSlug == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("slug")
	}
	slug, err := s.validator.ValidateSlug(rawSlug)
	if err != nil {
		return models.Envelope{}, apperrors.NewValidationError("slug", err.Error())
	}

	base := s.resolver.BaseURL(ctx)
	movieURL := fmt.Sprintf(constants.MoviePathFormat, base, slug)
	p, err := s.load(ctx, base, movieURL, "", "movie "+slug)
	if err != nil {
		return models.Envelope{}, err
	}

	details := models.MovieDetails{
		SeriesMetadata: p.doc.SeriesMetadata(),
		Classification: p.doc.PageClassification(),
		URL:            movieURL,
	}
	servers := p.doc.VideoServers()

	return models.Success(models.MovieData{
		Slug:    slug,
		Movie:   details,
		Servers: servers,
		Iframe:  p.doc.IframeSrc(),
	}, s.stats(start, len(servers), 0, p.via)), nil
}

