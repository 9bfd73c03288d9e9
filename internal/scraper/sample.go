package scraper

import "github.com/kailas-cloud/recommender/internal/domain"

// SampleCatalog returns the built-in records used when the live catalog
// yields nothing.
func SampleCatalog() []domain.Assessment {
	return []domain.Assessment{
		{
			Name:          "OPQ32r",
			URL:           "https://www.shl.com/solutions/products/opq32r/",
			RemoteTesting: domain.FlagYes,
			AdaptiveIRT:   domain.FlagYes,
			Duration:      "30 minutes",
			TestType:      "Personality",
		},
		{
			Name:          "Verify G+",
			URL:           "https://www.shl.com/solutions/products/verify-g-plus/",
			RemoteTesting: domain.FlagYes,
			AdaptiveIRT:   domain.FlagYes,
			Duration:      "45 minutes",
			TestType:      "Cognitive",
		},
		{
			Name:          "Verify Interactive",
			URL:           "https://www.shl.com/solutions/products/verify-interactive/",
			RemoteTesting: domain.FlagYes,
			AdaptiveIRT:   domain.FlagYes,
			Duration:      "60 minutes",
			TestType:      "Technical",
		},
	}
}
