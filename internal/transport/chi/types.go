package chi

import "github.com/kailas-cloud/recommender/internal/domain"

// APIMessage is the body of GET /.
const APIMessage = "SHL Assessment Recommendation API"

// catalogUnavailableDetail is returned when the catalog cannot be read.
const catalogUnavailableDetail = "Failed to load catalog data"

type rootResponse struct {
	Message string `json:"message"`
}

// recommendRequest is the body of POST /recommend. Text is a pointer so a
// missing field can be told apart from an empty string.
type recommendRequest struct {
	Text        *string  `json:"text" validate:"required"`
	MaxDuration *int     `json:"max_duration" validate:"omitempty,gte=0"`
	TestTypes   []string `json:"test_types" validate:"omitempty,dive,max=200"`
}

func (r recommendRequest) toQuery() domain.Query {
	q := domain.Query{TestTypes: r.TestTypes}
	if r.Text != nil {
		q.Text = *r.Text
	}
	if r.MaxDuration != nil {
		q.MaxDuration = *r.MaxDuration
	}
	return q
}

type recommendResponse struct {
	Recommendations []domain.Assessment `json:"recommendations"`
	Message         string              `json:"message"`
}

type metricsResponse struct {
	MeanRecallAt3 float64 `json:"mean_recall_at_3"`
	MAPAt3        float64 `json:"map_at_3"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorResponse carries either a plain message or a list of field errors.
type errorResponse struct {
	Detail any `json:"detail"`
}

// fieldError mirrors one entry of a validation error list.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}
