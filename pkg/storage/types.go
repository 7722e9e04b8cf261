package storage

import (
	"time"

	"github.com/vitalia-app/vitalia/pkg/insights"
	"github.com/vitalia-app/vitalia/pkg/score"
)

// DayFormat is how calendar days are stored and compared. Days are
// user-local; callers resolve the timezone before a date reaches storage.
const DayFormat = "2006-01-02"

// DailyEntity is the persisted unit: one generated record per
// (user, category, day).
type DailyEntity struct {
	UserID          string                    `json:"user_id"`
	Category        string                    `json:"category"`
	Day             string                    `json:"day"`
	Score           score.Result              `json:"score"`
	Recommendations []insights.Recommendation `json:"recommendations"`
	Summary         string                    `json:"summary,omitempty"`
	Fallback        bool                      `json:"fallback,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// Day formats a time as a storage day key.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}
