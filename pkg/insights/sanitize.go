package insights

import (
	"fmt"
	"strings"
)

const (
	defaultEstimatedTime = "5-10 min"
	minRecommendations   = 3
)

// placeholderSentinels are description values some model versions emit
// instead of leaving the field out.
var placeholderSentinels = map[string]bool{
	"description not available": true,
	"no description available":  true,
	"no description":            true,
	"not available":             true,
	"n/a":                       true,
	"tbd":                       true,
	"...":                       true,
}

// Sanitize enforces the record invariants: non-empty action and reason,
// a deterministic id, a valid priority and category, and non-nil slices.
// It is idempotent: sanitizing an already-sanitized list changes nothing.
func Sanitize(recs []Recommendation, cat Category) []Recommendation {
	if !validCategory(cat) {
		cat = CategoryMindfulness
	}

	out := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		rec.Action = cleanText(rec.Action)
		rec.Reason = cleanText(rec.Reason)
		rec.DetailedExplanation = strings.TrimSpace(rec.DetailedExplanation)

		if rec.Action == "" {
			rec.Action = firstSentence(rec.DetailedExplanation)
		}
		if rec.Action == "" {
			rec.Action = rec.Reason
		}
		if rec.Action == "" {
			// Nothing usable to show; drop rather than emit an empty action.
			continue
		}

		if rec.Reason == "" {
			rec.Reason = firstSentence(rec.DetailedExplanation)
		}
		if rec.Reason == "" {
			rec.Reason = "Suggested to support your goal: " + rec.Action
		}

		if strings.TrimSpace(rec.ID) == "" {
			rec.ID = fmt.Sprintf("%s-insight-%d", cat, len(out))
		}
		if !validPriority(rec.Priority) {
			rec.Priority = PriorityMedium
		}
		if !validCategory(rec.Category) {
			rec.Category = cat
		}
		if strings.TrimSpace(rec.EstimatedTime) == "" {
			rec.EstimatedTime = defaultEstimatedTime
		}
		if rec.Correlations == nil {
			rec.Correlations = []string{}
		}
		if rec.ExpectedBenefits == nil {
			rec.ExpectedBenefits = []string{}
		}

		out = append(out, rec)
	}
	return out
}

// pad tops a short list up to the minimum size from the fallback catalog,
// preferring categories the list does not cover yet.
func pad(recs []Recommendation, cat Category) []Recommendation {
	if len(recs) >= minRecommendations {
		return recs
	}

	seen := make(map[Category]bool, len(recs))
	ids := make(map[string]bool, len(recs))
	for _, r := range recs {
		seen[r.Category] = true
		ids[r.ID] = true
	}

	// First pass: one entry from each category not represented yet.
	for _, c := range AllCategories {
		if len(recs) >= minRecommendations {
			return recs
		}
		if seen[c] {
			continue
		}
		for _, fb := range Fallback(c) {
			if !ids[fb.ID] {
				recs = append(recs, fb)
				ids[fb.ID] = true
				seen[c] = true
				break
			}
		}
	}

	// Second pass: anything left in the catalog, requested category first.
	for _, c := range append([]Category{cat}, AllCategories...) {
		for _, fb := range Fallback(c) {
			if len(recs) >= minRecommendations {
				return recs
			}
			if !ids[fb.ID] {
				recs = append(recs, fb)
				ids[fb.ID] = true
			}
		}
	}
	return recs
}

// cleanText trims and drops placeholder sentinels.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if placeholderSentinels[strings.ToLower(strings.TrimRight(s, "."))] || placeholderSentinels[strings.ToLower(s)] {
		return ""
	}
	return s
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(s, ".!?"); i > 0 {
		return strings.TrimSpace(s[:i+1])
	}
	return s
}
