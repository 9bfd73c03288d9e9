package scraper

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Scraper fetches and parses the catalog listing.
type Scraper struct {
	url            string
	opts           Options
	sampleFallback bool
	details        bool
	logger         *zap.Logger
}

// New creates a Scraper for pageURL. With sampleFallback, a page that parses
// to zero records yields SampleCatalog instead.
func New(pageURL string, opts Options, sampleFallback bool, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{url: pageURL, opts: opts, sampleFallback: sampleFallback, logger: logger}
}

// WithDetails makes Fetch visit each product page whose listing row has no
// duration and read the completion time from it.
func (s *Scraper) WithDetails() *Scraper {
	s.details = true
	return s
}

// Fetch downloads the listing and returns its records. A failed download is
// always an error; the sample fallback only covers pages with no parseable rows.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Assessment, error) {
	html, err := FetchPage(ctx, s.url, s.opts)
	if err != nil {
		return nil, err
	}

	records, err := ParseCatalog(html, s.url)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	s.logger.Info("Catalog page parsed", zap.String("url", s.url), zap.Int("records", len(records)))

	if len(records) == 0 && s.sampleFallback {
		s.logger.Warn("No catalog rows found, using sample records")
		return SampleCatalog(), nil
	}
	if s.details {
		if err := s.fillDurations(ctx, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// fillDurations reads missing durations from product pages. A page that fails
// to load or states no time leaves the record's duration empty.
func (s *Scraper) fillDurations(ctx context.Context, records []domain.Assessment) error {
	filled, missing := 0, 0
	for i := range records {
		if records[i].Duration != "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fetch product details: %w", err)
		}
		html, err := FetchPage(ctx, records[i].URL, s.opts)
		if err != nil {
			s.logger.Warn("Product page unavailable", zap.String("url", records[i].URL), zap.Error(err))
			missing++
			continue
		}
		d, err := ParseDuration(html)
		if err != nil || d == "" {
			s.logger.Debug("No completion time on product page", zap.String("url", records[i].URL))
			missing++
			continue
		}
		records[i].Duration = d
		filled++
	}
	s.logger.Info("Product details read", zap.Int("durations", filled), zap.Int("missing", missing))
	return nil
}
