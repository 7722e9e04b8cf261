package score

import "math"

// Category identifies one daily wellness signal.
type Category string

const (
	CategoryMood       Category = "mood"
	CategorySleep      Category = "sleep"
	CategorySleepAuto  Category = "sleep_auto"
	CategorySteps      Category = "steps"
	CategoryHydration  Category = "hydration"
	CategoryHRV        Category = "hrv"
	CategoryCalories   Category = "calories"
	CategoryMeditation Category = "meditation"
)

// AllCategories is the canonical ordering used for breakdowns and
// missing/included lists, so identical inputs always produce identical results.
var AllCategories = []Category{
	CategoryMood,
	CategorySleep,
	CategorySleepAuto,
	CategorySteps,
	CategoryHydration,
	CategoryHRV,
	CategoryCalories,
	CategoryMeditation,
}

// Signals holds one day of raw inputs. A nil field means the signal was never
// recorded; zero or negative values are treated the same way (except mood,
// which only needs to be present). Quality values are on a 0-100 scale.
type Signals struct {
	Mood              *float64 // 1-5 self report
	SleepHours        *float64
	SleepQuality      *float64 // optional, pairs with SleepHours
	AutoSleepHours    *float64 // from a wearable
	AutoSleepQuality  *float64
	Steps             *float64
	HydrationGlasses  *float64
	HRVMs             *float64
	Calories          *float64
	MeditationMinutes *float64
}

// Config carries per-user goals and per-category weights. Both are settings,
// not constants, so goal changes never require a code change.
type Config struct {
	Goals       map[Category]float64
	Weights     map[Category]int
	MinCoverage int
}

// DefaultConfig returns the goal and weight tables used when the settings
// provider has nothing for the user.
func DefaultConfig() Config {
	return Config{
		Goals: map[Category]float64{
			CategorySleep:      8,
			CategorySleepAuto:  8,
			CategorySteps:      10000,
			CategoryHydration:  8,
			CategoryHRV:        60,
			CategoryCalories:   2000,
			CategoryMeditation: 10,
		},
		Weights: map[Category]int{
			CategoryMood:       2,
			CategorySleep:      3,
			CategorySleepAuto:  2,
			CategorySteps:      2,
			CategoryHydration:  1,
			CategoryHRV:        2,
			CategoryCalories:   1,
			CategoryMeditation: 1,
		},
		MinCoverage: 3,
	}
}

// Item is the per-category contribution to the composite score.
type Item struct {
	Score  float64  `json:"score"`
	Weight int      `json:"weight"`
	Value  float64  `json:"value"`
	Goal   *float64 `json:"goal,omitempty"`
}

// Result is the full outcome of one computation. Score is nil when fewer than
// Config.MinCoverage categories had usable data; callers must treat nil as
// "insufficient data", never as zero.
type Result struct {
	Score     *int              `json:"score"`
	Breakdown map[Category]Item `json:"breakdown"`
	Included  []Category        `json:"included_categories"`
	Missing   []Category        `json:"missing_categories"`
}

// Compute derives the 0-100 composite wellness score. It is a pure function:
// no I/O, no clock reads, identical inputs give identical results.
func Compute(sig Signals, cfg Config) Result {
	if cfg.MinCoverage <= 0 {
		cfg.MinCoverage = 3
	}

	res := Result{
		Breakdown: make(map[Category]Item),
		Included:  []Category{},
		Missing:   []Category{},
	}

	for _, cat := range AllCategories {
		item, ok := normalize(cat, sig, cfg)
		if !ok {
			res.Missing = append(res.Missing, cat)
			continue
		}
		res.Breakdown[cat] = item
		res.Included = append(res.Included, cat)
	}

	if len(res.Included) < cfg.MinCoverage {
		return res
	}

	var weighted float64
	var totalWeight int
	for _, cat := range res.Included {
		item := res.Breakdown[cat]
		weighted += item.Score * float64(item.Weight)
		totalWeight += item.Weight
	}
	if totalWeight == 0 {
		return res
	}

	final := int(math.Round(weighted / float64(totalWeight)))
	res.Score = &final
	return res
}

func normalize(cat Category, sig Signals, cfg Config) (Item, bool) {
	weight := cfg.Weights[cat]
	if weight <= 0 {
		weight = 1
	}

	switch cat {
	case CategoryMood:
		if sig.Mood == nil {
			return Item{}, false
		}
		return Item{
			Score:  clamp(*sig.Mood/5*100, 0, 100),
			Weight: weight,
			Value:  *sig.Mood,
		}, true

	case CategorySleep:
		return sleepItem(sig.SleepHours, sig.SleepQuality, cfg.Goals[cat], weight)

	case CategorySleepAuto:
		return sleepItem(sig.AutoSleepHours, sig.AutoSleepQuality, cfg.Goals[cat], weight)

	case CategorySteps:
		return ratioItem(sig.Steps, cfg.Goals[cat], weight)

	case CategoryHydration:
		return ratioItem(sig.HydrationGlasses, cfg.Goals[cat], weight)

	case CategoryHRV:
		return ratioItem(sig.HRVMs, cfg.Goals[cat], weight)

	case CategoryCalories:
		return calorieItem(sig.Calories, cfg.Goals[cat], weight)

	case CategoryMeditation:
		return ratioItem(sig.MeditationMinutes, cfg.Goals[cat], weight)
	}
	return Item{}, false
}

// ratioItem scores linear progress toward a goal, capped at 100.
func ratioItem(value *float64, goal float64, weight int) (Item, bool) {
	if value == nil || *value <= 0 || goal <= 0 {
		return Item{}, false
	}
	g := goal
	return Item{
		Score:  clamp(*value/goal, 0, 1) * 100,
		Weight: weight,
		Value:  *value,
		Goal:   &g,
	}, true
}

// calorieItem uses a band around the target: full marks inside 80-100% of the
// goal, linear ramp below, mild penalty (floored at 60) when over.
func calorieItem(value *float64, goal float64, weight int) (Item, bool) {
	if value == nil || *value <= 0 || goal <= 0 {
		return Item{}, false
	}
	ratio := *value / goal
	var s float64
	switch {
	case ratio < 0.8:
		s = ratio / 0.8 * 100
	case ratio <= 1.0:
		s = 100
	default:
		s = math.Max(60, 100-(ratio-1)*100)
	}
	g := goal
	return Item{
		Score:  clamp(s, 0, 100),
		Weight: weight,
		Value:  *value,
		Goal:   &g,
	}, true
}

// sleepItem blends duration against the goal (70%) with a quality component
// (30%). When quality was not measured, a coarse heuristic stands in: seven or
// more hours counts as decent quality.
func sleepItem(hours, quality *float64, goal float64, weight int) (Item, bool) {
	if hours == nil || *hours <= 0 || goal <= 0 {
		return Item{}, false
	}
	q := 60.0
	if quality != nil && *quality > 0 {
		q = clamp(*quality, 0, 100)
	} else if *hours >= 7 {
		q = 80
	}
	g := goal
	return Item{
		Score:  clamp(clamp(*hours/goal, 0, 1)*70+q*0.3, 0, 100),
		Weight: weight,
		Value:  *hours,
		Goal:   &g,
	}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Float is a convenience for building optional signal values.
func Float(v float64) *float64 { return &v }
