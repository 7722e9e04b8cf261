package insights

// fallbackCatalog holds hand-authored defaults served when the model output
// is beyond repair, and used to pad short lists. Content mirrors the in-app
// suggestion library.
var fallbackCatalog = map[Category][]Recommendation{
	CategoryNutrition: {
		{
			ID:                  "nutrition-fallback-0",
			Priority:            PriorityMedium,
			Category:            CategoryNutrition,
			Action:              "Drink a glass of water now and keep a bottle within reach",
			Reason:              "Steady hydration supports energy, focus and skin health",
			EstimatedTime:       "1 min",
			DetailedExplanation: "Mild dehydration is one of the most common causes of afternoon fatigue. Spreading intake across the day works better than catching up in the evening.",
			Correlations:        []string{"hydration"},
			ExpectedBenefits:    []string{"More stable energy", "Better skin hydration"},
		},
		{
			ID:               "nutrition-fallback-1",
			Priority:         PriorityLow,
			Category:         CategoryNutrition,
			Action:           "Add one portion of green vegetables to your next meal",
			Reason:           "Micronutrients from leafy greens support recovery and mood",
			EstimatedTime:    "5 min",
			Correlations:     []string{"calories"},
			ExpectedBenefits: []string{"Better micronutrient coverage"},
		},
	},
	CategoryMovement: {
		{
			ID:                  "movement-fallback-0",
			Priority:            PriorityMedium,
			Category:            CategoryMovement,
			Action:              "Take a 15 minute walk outside",
			Reason:              "Light outdoor movement lifts mood and adds to your step goal",
			EstimatedTime:       "15 min",
			DetailedExplanation: "A brisk walk raises heart rate gently, exposes you to daylight and breaks up long sitting periods, all of which correlate with better evening sleep.",
			Correlations:        []string{"steps", "mood"},
			ExpectedBenefits:    []string{"Improved mood", "Progress toward step goal"},
		},
		{
			ID:               "movement-fallback-1",
			Priority:         PriorityLow,
			Category:         CategoryMovement,
			Action:           "Do 10 minutes of gentle neck and shoulder stretching",
			Reason:           "Releasing tension helps posture and reduces end-of-day soreness",
			EstimatedTime:    "10 min",
			Correlations:     []string{},
			ExpectedBenefits: []string{"Less muscle tension"},
		},
	},
	CategoryRecovery: {
		{
			ID:                  "recovery-fallback-0",
			Priority:            PriorityHigh,
			Category:            CategoryRecovery,
			Action:              "Set a wind-down alarm 45 minutes before your target bedtime",
			Reason:              "A consistent pre-sleep routine is the strongest lever on sleep quality",
			EstimatedTime:       "2 min",
			DetailedExplanation: "Screens and bright light late in the evening delay melatonin release. A fixed cue to start winding down protects your sleep duration goal.",
			Correlations:        []string{"sleep"},
			ExpectedBenefits:    []string{"Easier sleep onset", "More consistent sleep duration"},
		},
	},
	CategoryMindfulness: {
		{
			ID:                  "mindfulness-fallback-0",
			Priority:            PriorityMedium,
			Category:            CategoryMindfulness,
			Action:              "Practice 5 minutes of slow breathing",
			Reason:              "Brief breathing practice measurably lowers stress arousal",
			EstimatedTime:       "5 min",
			DetailedExplanation: "Slow exhale-weighted breathing activates the parasympathetic system. Even a single short session can raise heart-rate variability for the following hour.",
			Correlations:        []string{"hrv", "meditation"},
			ExpectedBenefits:    []string{"Lower stress", "Higher HRV"},
		},
		{
			ID:               "mindfulness-fallback-1",
			Priority:         PriorityLow,
			Category:         CategoryMindfulness,
			Action:           "Write down one thing that went well today",
			Reason:           "A small gratitude note nudges mood ratings upward over time",
			EstimatedTime:    "2 min",
			Correlations:     []string{"mood"},
			ExpectedBenefits: []string{"Improved mood trend"},
		},
	},
	CategoryEnergy: {
		{
			ID:                  "energy-fallback-0",
			Priority:            PriorityMedium,
			Category:            CategoryEnergy,
			Action:              "Swap your next coffee for a green tea break",
			Reason:              "A gentler caffeine dose avoids the late-day crash",
			EstimatedTime:       "5 min",
			DetailedExplanation: "Green tea pairs a smaller caffeine dose with L-theanine, which smooths alertness without the spike and dip of a second espresso.",
			Correlations:        []string{},
			ExpectedBenefits:    []string{"Steadier afternoon energy"},
		},
	},
}

// Fallback returns a copy of the curated defaults for a category. Unknown
// categories get the mindfulness set, which is safe for anyone.
func Fallback(cat Category) []Recommendation {
	recs, ok := fallbackCatalog[cat]
	if !ok {
		recs = fallbackCatalog[CategoryMindfulness]
	}
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out
}
