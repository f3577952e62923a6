package services

import (
	"context"
	"time"

	"github.com/amaumene/gostreamfr/internal/constants"
	apperrors "github.com/amaumene/gostreamfr/internal/errors"
	"github.com/amaumene/gostreamfr/internal/extract"
	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/normalize"
)

// Home returns every home page section, the schedule and both navigation menus.
func (s *Scraper) Home(ctx context.Context) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()
	base := s.resolver.BaseURL(ctx)

	p, err := s.load(ctx, base, base+"/", "", "home page")
	if err != nil {
		return models.Envelope{}, err
	}

	data := models.HomeData{
		Sections: map[string][]models.MediaItem{},
		Schedule: p.doc.Schedule(),
		Menu:     p.doc.Menu(),
		Footer:   p.doc.Footer(),
	}
	counts := map[string]int{}
	total := 0
	for _, section := range extract.Sections {
		if !section.IsListing() {
			continue
		}
		items := p.doc.ContentList(section)
		data.Sections[string(section)] = items
		counts[string(section)] = len(items)
		total += len(items)
	}
	counts[string(extract.SectionSchedule)] = countSchedule(data.Schedule)
	counts[string(extract.SectionMenu)] = len(data.Menu)
	counts[string(extract.SectionFooter)] = len(data.Footer)

	return models.Success(data, models.HomeStats{
		Stats:    s.stats(start, total, 0, p.via),
		Sections: counts,
	}), nil
}

// Section returns one block of the home page.
func (s *Scraper) Section(ctx context.Context, rawSection string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if rawSection == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("section")
	}
	section, ok := extract.ParseSection(rawSection)
	if !ok {
		return models.Envelope{}, apperrors.NewValidationError("section", "unknown section")
	}

	base := s.resolver.BaseURL(ctx)
	p, err := s.load(ctx, base, base+"/", "", "home page")
	if err != nil {
		return models.Envelope{}, err
	}

	results, err := extract.Extract(p.raw, section.View(), extract.Options{Base: base, Section: section})
	if err != nil {
		return models.Envelope{}, apperrors.NewConfigurationError("Section extraction is misconfigured", err)
	}

	count := 0
	switch v := results.(type) {
	case []models.MediaItem:
		count = len(v)
	case []models.MenuItem:
		count = len(v)
	case []models.FooterItem:
		count = len(v)
	case map[string][]models.ScheduleEntry:
		count = countSchedule(v)
	}

	return models.Success(
		models.SectionData{Section: string(section), Results: results},
		s.stats(start, count, 0, p.via),
	), nil
}

// Catalog lists the movies or series index.
func (s *Scraper) Catalog(ctx context.Context, catalogType, rawPage string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	section := extract.SectionMovies
	if catalogType != "" {
		parsed, ok := extract.ParseSection(catalogType)
		if !ok || (parsed != extract.SectionMovies && parsed != extract.SectionSeries) {
			return models.Envelope{}, apperrors.NewValidationError("type", "must be 'movies' or 'series'")
		}
		section = parsed
	}
	pageNum, err := parsePage(rawPage)
	if err != nil {
		return models.Envelope{}, err
	}

	base := s.resolver.BaseURL(ctx)
	target := normalize.PageURL(base, string(section), pageNum)
	return s.listingEnvelope(ctx, start, base, target, pageNum, "catalog", func(d *models.ListingData) {
		d.CatalogType = string(section)
	})
}

// Category lists a taxonomy path such as "category/action", optionally
// filtered by content type.
func (s *Scraper) Category(ctx context.Context, rawPath, typeFilter, rawPage string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if rawPath == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("path")
	}
	path, err := s.validator.ValidatePath(rawPath)
	if err != nil {
		return models.Envelope{}, apperrors.NewValidationError("path", err.Error())
	}
	filter, err := s.validateTypeFilter(typeFilter)
	if err != nil {
		return models.Envelope{}, err
	}
	pageNum, err := parsePage(rawPage)
	if err != nil {
		return models.Envelope{}, err
	}

	base := s.resolver.BaseURL(ctx)
	target := normalize.WithQuery(normalize.PageURL(base, path, pageNum), "type", filter)
	return s.listingEnvelope(ctx, start, base, target, pageNum, "category "+path, func(d *models.ListingData) {
		d.Path = path
		d.TypeFilter = filter
	})
}

// Letter lists the alphabetical index for one letter.
func (s *Scraper) Letter(ctx context.Context, rawLetter, rawPage string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if rawLetter == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("letter")
	}
	letter, err := s.validator.ValidateLetter(rawLetter)
	if err != nil {
		return models.Envelope{}, apperrors.NewValidationError("letter", err.Error())
	}
	pageNum, err := parsePage(rawPage)
	if err != nil {
		return models.Envelope{}, err
	}

	base := s.resolver.BaseURL(ctx)
	target := normalize.PageURL(base, constants.LetterSection+"/"+letter, pageNum)
	return s.listingEnvelope(ctx, start, base, target, pageNum, "letter "+letter, func(d *models.ListingData) {
		d.Letter = letter
	})
}

// Search runs a site search.
func (s *Scraper) Search(ctx context.Context, rawQuery, typeFilter, rawPage string) (models.Envelope, error) {
	ctx = detach(ctx)
	start := s.now()

	if rawQuery == "" {
		return models.Envelope{}, apperrors.NewMissingParamError("q")
	}
	query, err := s.validator.SanitizeQuery(rawQuery)
	if err != nil {
		return models.Envelope{}, apperrors.NewValidationError("q", err.Error())
	}
	filter, err := s.validateTypeFilter(typeFilter)
	if err != nil {
		return models.Envelope{}, err
	}
	pageNum, err := parsePage(rawPage)
	if err != nil {
		return models.Envelope{}, err
	}

	base := s.resolver.BaseURL(ctx)
	target := normalize.WithQuery(normalize.PageURL(base, "", pageNum), "s", query)
	target = normalize.WithQuery(target, "type", filter)
	return s.listingEnvelope(ctx, start, base, target, pageNum, "search results", func(d *models.ListingData) {
		d.Query = query
		d.TypeFilter = filter
	})
}

func (s *Scraper) listingEnvelope(ctx context.Context, start time.Time, base, target string, pageNum int, what string, decorate func(*models.ListingData)) (models.Envelope, error) {
	p, err := s.load(ctx, base, target, "", what)
	if err != nil {
		return models.Envelope{}, err
	}

	data := s.listing(p, pageNum)
	data.SourceURL = target
	decorate(&data)

	s.logger.Debugf("[Scraper] %s page %d: %d results via %s", what, pageNum, len(data.Results), p.via)
	return models.Success(data, s.stats(start, len(data.Results), data.CurrentPage, p.via)), nil
}

func countSchedule(schedule map[string][]models.ScheduleEntry) int {
	n := 0
	for _, entries := range schedule {
		n += len(entries)
	}
	return n
}
