package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/amaumene/gostreamfr/internal/constants"
	apperrors "github.com/amaumene/gostreamfr/internal/errors"
	"github.com/amaumene/gostreamfr/internal/models"
)

// EpisodeRequest holds the episode endpoint parameters. URL wins over Slug.
type EpisodeRequest struct {
	URL    string
	Slug   string
	Server string
}

// Episode returns the video servers of one episode page, optionally narrowed
// to a single 0-based server number.
func (s *Scraper) Episode(ctx context.Context, req EpisodeRequest) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()
	base := s.resolver.BaseURL(ctx)

	var target string
	switch {
	case req.URL != "":
		u, err := s.validator.ValidateTargetURL(req.URL, base)
		if err != nil {
			return models.Envelope{}, apperrors.NewValidationError("url", err.Error())
		}
		target = u
	case req.Slug != "":
		slug, err := s.validator.ValidateSlug(req.Slug)
		if err != nil {
			return models.Envelope{}, apperrors.NewValidationError("slug", err.Error())
		}
		target = fmt.Sprintf(constants.EpisodePathFormat, base, slug)
	default:
		return models.Envelope{}, apperrors.NewMissingParamError("url")
	}

	server := -1
	if req.Server != "" {
		n, err := strconv.Atoi(req.Server)
		if err != nil || n < 0 {
			return models.Envelope{}, apperrors.NewValidationError("server", "must be a non-negative integer")
		}
		server = n
	}

	p, err := s.load(ctx, base, target, "", "episode page")
	if err != nil {
		return models.Envelope{}, err
	}

	servers := p.doc.VideoServers()
	if server >= 0 {
		picked := []models.VideoServer{}
		for _, sv := range servers {
			if sv.ServerNumber == server {
				picked = append(picked, sv)
			}
		}
		servers = picked
	}

	return models.Success(models.EpisodeData{
		URL:     target,
		Servers: servers,
		Iframe:  p.doc.IframeSrc(),
	}, s.stats(start, len(servers), 0, p.via)), nil
}

// Embed follows a player page and returns the iframe it wraps.
func (s *Scraper) Embed(ctx context.Context, rawSrc string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if rawSrc == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("src")
	}
	src, err := s.validator.ValidateEmbedURL(rawSrc)
	if err != nil {
		return models.Envelope{}, apperrors.NewValidationError("src", err.Error())
	}

	base := s.resolver.BaseURL(ctx)
	p, err := s.load(ctx, base, src, "", "embed page")
	if err != nil {
		return models.Envelope{}, err
	}

	iframe := p.doc.IframeSrc()
	count := 0
	if iframe != "" {
		count = 1
	}
	return models.Success(models.EmbedData{Src: src, Iframe: iframe}, s.stats(start, count, 0, p.via)), nil
}

// Meta returns the meta tags of a page on the site.
func (s *Scraper) Meta(ctx context.Context, rawURL string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if rawURL == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("url")
	}
	base := s.resolver.BaseURL(ctx)
	target, err := s.validator.ValidateTargetURL(rawURL, base)
	if err != nil {
		return models.Envelope{}, apperrors.NewValidationError("url", err.Error())
	}

	p, err := s.load(ctx, base, target, "", "page")
	if err != nil {
		return models.Envelope{}, err
	}

	tags := p.doc.MetaTags()
	return models.Success(models.MetaData{URL: target, Tags: tags}, s.stats(start, len(tags), 0, p.via)), nil
}
