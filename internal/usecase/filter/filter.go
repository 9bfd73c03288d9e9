// Package filter applies the duration and test type predicates to catalog records.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/recommender/internal/domain"
)

const minuteMarker = "minute"

// Apply returns the records matching q, preserving input order.
// The result never aliases records, so callers may reorder it freely.
func Apply(records []domain.Assessment, q domain.Query) []domain.Assessment {
	out := make([]domain.Assessment, 0, len(records))
	for i := range records {
		if q.HasDurationLimit() && !MatchesDuration(records[i], q.MaxDuration) {
			continue
		}
		if q.HasTypeFilter() && !MatchesTestType(records[i], q.TestTypes) {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// MatchesDuration reports whether a is given in minutes and fits within maxMinutes.
// A duration without digits does not match.
func MatchesDuration(a domain.Assessment, maxMinutes int) bool {
	if !strings.Contains(strings.ToLower(a.Duration), minuteMarker) {
		return false
	}
	minutes, err := Minutes(a.Duration)
	if err != nil {
		return false
	}
	return minutes <= maxMinutes
}

// Minutes concatenates every ASCII digit in duration and parses the result,
// so "30-45 minutes" reads as 3045.
func Minutes(duration string) (int, error) {
	var digits strings.Builder
	for _, r := range duration {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("%q: %w", duration, domain.ErrNumericParse)
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, fmt.Errorf("%q: %w: %w", duration, domain.ErrNumericParse, err)
	}
	return n, nil
}

// MatchesTestType reports whether a's test type contains any of types, ignoring case.
func MatchesTestType(a domain.Assessment, types []string) bool {
	testType := strings.ToLower(a.TestType)
	for _, t := range types {
		if strings.Contains(testType, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
