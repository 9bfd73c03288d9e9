package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/repository/catalog"
	"github.com/kailas-cloud/recommender/internal/scraper"
)

type fetchOptions struct {
	url       string
	outJSON   string
	outCSV    string
	sample    bool
	offline   bool
	details   bool
	userAgent string
	timeout   time.Duration
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the product catalog and write it as JSON and CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runFetch(cmd, opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", scraper.DefaultCatalogURL, "catalog listing URL")
	f.StringVar(&opts.outJSON, "out-json", "data/shl_catalog.json", "JSON output path")
	f.StringVar(&opts.outCSV, "out-csv", "data/shl_catalog.csv", "CSV output path (empty to skip)")
	f.BoolVar(&opts.sample, "sample", false, "use the built-in sample records when the page has no catalog rows")
	f.BoolVar(&opts.offline, "offline", false, "skip the download and write the built-in sample records")
	f.BoolVar(&opts.details, "details", true, "visit product pages to read completion times missing from the listing")
	f.StringVar(&opts.userAgent, "user-agent", scraper.DefaultUserAgent, "User-Agent header")
	f.DurationVar(&opts.timeout, "timeout", scraper.DefaultTimeout, "HTTP timeout")
	return cmd
}

func runFetch(cmd *cobra.Command, opts *fetchOptions, logger *zap.Logger) error {
	var records []domain.Assessment
	if opts.offline {
		records = scraper.SampleCatalog()
	} else {
		s := scraper.New(opts.url, scraper.Options{Timeout: opts.timeout, UserAgent: opts.userAgent}, opts.sample, logger)
		if opts.details {
			s.WithDetails()
		}
		var err error
		records, err = s.Fetch(cmd.Context())
		if err != nil {
			logger.Error("Error fetching catalog", zap.Error(err))
			return err //nolint:wrapcheck // already descriptive
		}
	}

	// an empty catalog would make every API request fail, so leave existing files alone
	if len(records) == 0 {
		return errors.New("no catalog records found (retry with --sample to use built-in records)")
	}

	if err := catalog.WriteJSON(opts.outJSON, records); err != nil {
		return err //nolint:wrapcheck // already descriptive
	}
	if opts.outCSV != "" {
		if err := catalog.WriteCSV(opts.outCSV, records); err != nil {
			return err //nolint:wrapcheck // already descriptive
		}
	}

	logger.Info("Catalog written",
		zap.Int("records", len(records)),
		zap.String("json", opts.outJSON),
		zap.String("csv", opts.outCSV),
	)
	return nil
}
