package evaluation

// RecallAtK is the share of relevant items found in the first k results.
// Empty relevant sets score 0.
func RecallAtK(results, relevant []string, k int) float64 {
	if len(relevant) == 0 || k <= 0 {
		return 0
	}
	rel := toSet(relevant)
	hits := 0
	for _, r := range head(dedupe(results), k) {
		if rel[r] {
			hits++
		}
	}
	return float64(hits) / float64(len(rel))
}

// AveragePrecisionAtK averages precision at each relevant position within
// the first k results, normalized by min(k, |relevant|).
func AveragePrecisionAtK(results, relevant []string, k int) float64 {
	if len(relevant) == 0 || k <= 0 {
		return 0
	}
	rel := toSet(relevant)
	hits := 0
	var sum float64
	for i, r := range head(dedupe(results), k) {
		if rel[r] {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	return sum / float64(min(k, len(rel)))
}

func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}

// dedupe keeps the first occurrence so repeated URLs are not counted twice.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

func head(items []string, k int) []string {
	if len(items) > k {
		return items[:k]
	}
	return items
}
