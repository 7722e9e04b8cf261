package insights

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse recovers a recommendation list from raw model output. It tries
// progressively more aggressive strategies and falls back to the static
// catalog, so the caller always gets at least one sanitized record.
func Parse(raw string, cat Category) []Recommendation {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		stages := []func(string) []Recommendation{
			parseDirect,
			parseRepaired,
			parseBalanced,
			parseFragments,
		}
		for _, stage := range stages {
			if recs := stage(raw); usable(recs) {
				return pad(Sanitize(recs, cat), cat)
			}
		}
	}
	return pad(Sanitize(Fallback(cat), cat), cat)
}

// usable means every recovered item carries at least an action (or a title
// mapped onto it). A stage that cannot manage that yields to the next one.
func usable(recs []Recommendation) bool {
	if len(recs) == 0 {
		return false
	}
	for _, r := range recs {
		if strings.TrimSpace(r.Action) == "" {
			return false
		}
	}
	return true
}

// parseDirect accepts the whole text as one JSON document.
func parseDirect(raw string) []Recommendation {
	if !gjson.Valid(raw) {
		return nil
	}
	return itemsFromDocument(raw)
}

// parseRepaired runs a generic syntax repair over the text first.
func parseRepaired(raw string) []Recommendation {
	repaired := repairJSON(raw)
	if repaired == raw || !gjson.Valid(repaired) {
		return nil
	}
	return itemsFromDocument(repaired)
}

// parseBalanced extracts the first top-level object span and appends any
// closing braces a truncated response dropped.
func parseBalanced(raw string) []Recommendation {
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return nil
	}
	candidate := repairJSON(balanceBrackets(raw[start:]))
	if !gjson.Valid(candidate) {
		return nil
	}
	return itemsFromDocument(candidate)
}

var (
	fragmentRe    = regexp.MustCompile(`\{[^{}]*\}`)
	titleRe       = regexp.MustCompile(`"(?:title|action)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	descriptionRe = regexp.MustCompile(`"(?:description|reason)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// parseFragments scans for object-shaped fragments regardless of overall
// document validity, parsing each on its own. If even that fails, it
// synthesizes minimal records from captured title/description substrings.
func parseFragments(raw string) []Recommendation {
	var out []Recommendation
	for _, frag := range fragmentRe.FindAllString(raw, -1) {
		if !strings.Contains(frag, `"title"`) && !strings.Contains(frag, `"action"`) {
			continue
		}
		candidate := frag
		if !gjson.Valid(candidate) {
			candidate = repairJSON(balanceBrackets(frag))
			if !gjson.Valid(candidate) {
				continue
			}
		}
		if rec, ok := itemFromJSON(gjson.Parse(candidate)); ok {
			out = append(out, rec)
		}
	}
	if len(out) > 0 {
		return out
	}

	// Fragment-level parsing failed too; salvage bare field captures.
	titles := titleRe.FindAllStringSubmatch(raw, -1)
	descs := descriptionRe.FindAllStringSubmatch(raw, -1)
	for i, m := range titles {
		rec := Recommendation{Action: strings.TrimSpace(m[1])}
		if i < len(descs) {
			rec.Reason = strings.TrimSpace(descs[i][1])
		}
		if rec.Action != "" {
			out = append(out, rec)
		}
	}
	return out
}

// itemsFromDocument pulls recommendation items out of a syntactically valid
// JSON document: a top-level array, a wrapper object with a recommendations
// or insights array, or a single recommendation-shaped object.
func itemsFromDocument(doc string) []Recommendation {
	root := gjson.Parse(doc)

	arr := root
	if !root.IsArray() {
		arr = gjson.Result{}
		for _, path := range []string{"recommendations", "insights", "data.recommendations"} {
			if v := root.Get(path); v.IsArray() {
				arr = v
				break
			}
		}
	}

	if arr.IsArray() {
		var out []Recommendation
		arr.ForEach(func(_, item gjson.Result) bool {
			if rec, ok := itemFromJSON(item); ok {
				out = append(out, rec)
			}
			return true
		})
		return out
	}

	// A lone object that looks like a recommendation still counts.
	if rec, ok := itemFromJSON(root); ok {
		return []Recommendation{rec}
	}
	return nil
}

// itemFromJSON builds a strict record from one loosely-typed JSON item.
// Unknown fields are ignored; alias fields from older client versions
// (title, description, camelCase keys) are folded in here, at the boundary.
func itemFromJSON(item gjson.Result) (Recommendation, bool) {
	if !item.IsObject() {
		return Recommendation{}, false
	}

	rec := Recommendation{
		ID:                  firstString(item, "id"),
		Priority:            Priority(strings.ToLower(firstString(item, "priority"))),
		Category:            Category(strings.ToLower(firstString(item, "category"))),
		Action:              firstString(item, "action", "title"),
		Reason:              firstString(item, "reason", "description"),
		EstimatedTime:       firstString(item, "estimated_time", "estimatedTime"),
		DetailedExplanation: firstString(item, "detailed_explanation", "detailedExplanation"),
		Correlations:        stringSlice(item, "correlations"),
		ExpectedBenefits:    stringSlice(item, "expected_benefits", "expectedBenefits"),
	}

	if strings.TrimSpace(rec.Action) == "" {
		return Recommendation{}, false
	}
	return rec, true
}

func firstString(item gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := item.Get(p)
		if v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringSlice(item gjson.Result, paths ...string) []string {
	for _, p := range paths {
		v := item.Get(p)
		if !v.IsArray() {
			continue
		}
		var out []string
		v.ForEach(func(_, e gjson.Result) bool {
			if s := strings.TrimSpace(e.String()); s != "" {
				out = append(out, s)
			}
			return true
		})
		return out
	}
	return nil
}

var (
	codeFenceRe     = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON applies generic, content-agnostic fixes: markdown fences,
// trailing commas, an odd number of quotes, unclosed brackets.
func repairJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	s = trailingCommaRe.ReplaceAllString(s, "$1")

	if countUnescapedQuotes(s)%2 == 1 {
		s += `"`
	}

	return balanceBrackets(s)
}

// balanceBrackets appends whatever closing braces or brackets are missing,
// in nesting order. Quoted spans are skipped so braces inside strings do not
// skew the count.
func balanceBrackets(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				stack = append(stack, '}')
			}
		case '[':
			if !inString {
				stack = append(stack, ']')
			}
		case '}', ']':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString {
		s += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		s += string(stack[i])
	}
	return s
}

func countUnescapedQuotes(s string) int {
	n := 0
	escaped := false
	for i := 0; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch s[i] {
		case '\\':
			escaped = true
		case '"':
			n++
		}
	}
	return n
}
