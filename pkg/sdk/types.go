package recommender

// Assessment is one catalog product as returned by the API.
type Assessment struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	RemoteTesting string `json:"remote_testing"`
	AdaptiveIRT   string `json:"adaptive_irt"`
	Duration      string `json:"duration"`
	TestType      string `json:"test_type"`
}

// Request is a recommendation query. Zero MaxDuration and empty TestTypes
// disable the respective filter.
type Request struct {
	Text        string   `json:"text"`
	MaxDuration int      `json:"max_duration,omitempty"`
	TestTypes   []string `json:"test_types,omitempty"`
}

// Response is a recommendation result.
type Response struct {
	Recommendations []Assessment `json:"recommendations"`
	Message         string       `json:"message"`

	// Filled from response headers.
	OracleCalls     int  `json:"-"`
	OracleCacheHits int  `json:"-"`
	Ranked          bool `json:"-"`
}

// Metrics is the evaluation summary served at /metrics.
type Metrics struct {
	MeanRecallAt3 float64 `json:"mean_recall_at_3"`
	MAPAt3        float64 `json:"map_at_3"`
}

// HealthStatus represents the aggregated service health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}
