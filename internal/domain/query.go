package domain

import "strings"

// Query is a single recommendation request.
// Zero MaxDuration and empty TestTypes mean "no filter".
type Query struct {
	Text        string
	MaxDuration int
	TestTypes   []string
}

// HasDurationLimit reports whether the duration ceiling applies.
func (q Query) HasDurationLimit() bool { return q.MaxDuration > 0 }

// HasTypeFilter reports whether the test type filter applies.
func (q Query) HasTypeFilter() bool { return len(q.TestTypes) > 0 }

// Validate checks the query for values the pipeline cannot honor.
func (q Query) Validate() error {
	if q.MaxDuration < 0 {
		return NewInvalidQuery("max_duration must not be negative")
	}
	if strings.ContainsRune(q.Text, 0) {
		return NewInvalidQuery("text must not contain NUL bytes")
	}
	return nil
}

// Recommendation messages returned to clients.
const (
	MessageSuccess   = "Success"
	MessageNoMatches = "No assessments match your criteria"
)

// Recommendation is the outcome of a recommendation request.
type Recommendation struct {
	Items   []Assessment
	Message string
	// Ranked is false when the rank stage fell back to the filtered order.
	Ranked bool
}
