// Package insights turns unreliable model output into validated
// recommendation records. Parsing never fails outright: every stage that
// cannot produce usable data hands over to the next one, ending at a curated
// static catalog.
package insights

// Priority ranks how urgently a recommendation should be surfaced.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category groups recommendations by the kind of habit they address.
type Category string

const (
	CategoryNutrition   Category = "nutrition"
	CategoryMovement    Category = "movement"
	CategoryRecovery    Category = "recovery"
	CategoryMindfulness Category = "mindfulness"
	CategoryEnergy      Category = "energy"
)

// AllCategories in presentation order.
var AllCategories = []Category{
	CategoryNutrition,
	CategoryMovement,
	CategoryRecovery,
	CategoryMindfulness,
	CategoryEnergy,
}

// Recommendation is one actionable suggestion. After sanitization, Action and
// Reason are never empty and Correlations/ExpectedBenefits are never nil.
type Recommendation struct {
	ID                  string   `json:"id"`
	Priority            Priority `json:"priority"`
	Category            Category `json:"category"`
	Action              string   `json:"action"`
	Reason              string   `json:"reason"`
	EstimatedTime       string   `json:"estimated_time,omitempty"`
	DetailedExplanation string   `json:"detailed_explanation,omitempty"`
	Correlations        []string `json:"correlations"`
	ExpectedBenefits    []string `json:"expected_benefits"`
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func validCategory(c Category) bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}
