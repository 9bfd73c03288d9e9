package domain

// Flag is a Yes/No catalog attribute. Values outside Yes/No are kept verbatim.
type Flag string

const (
	// FlagYes marks a supported capability.
	FlagYes Flag = "Yes"
	// FlagNo marks an unsupported capability.
	FlagNo Flag = "No"
)

// Assessment is one catalog entry describing an assessment product.
// The JSON field names are the catalog file format.
type Assessment struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	RemoteTesting Flag   `json:"remote_testing"`
	AdaptiveIRT   Flag   `json:"adaptive_irt"`
	Duration      string `json:"duration"`
	TestType      string `json:"test_type"`
}

// SignalText is the text describing the assessment to the relevance oracle.
func (a Assessment) SignalText() string {
	return a.Name + " " + a.TestType + " " + a.Duration
}

// CatalogColumns is the column order of the CSV catalog export.
var CatalogColumns = []string{"name", "url", "remote_testing", "adaptive_irt", "duration", "test_type"}

// Row returns the assessment fields in CatalogColumns order.
func (a Assessment) Row() []string {
	return []string{a.Name, a.URL, string(a.RemoteTesting), string(a.AdaptiveIRT), a.Duration, a.TestType}
}
