package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalia-app/vitalia/pkg/score"
)

// scoreCmd computes a wellness score from flag-provided signals, offline.
// Handy for checking how goal or weight changes move the number.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a wellness score from signals given on the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		var sig score.Signals
		flagFloat := func(name string, dst **float64) {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetFloat64(name)
				*dst = score.Float(v)
			}
		}
		flagFloat("mood", &sig.Mood)
		flagFloat("sleep-hours", &sig.SleepHours)
		flagFloat("sleep-quality", &sig.SleepQuality)
		flagFloat("auto-sleep-hours", &sig.AutoSleepHours)
		flagFloat("auto-sleep-quality", &sig.AutoSleepQuality)
		flagFloat("steps", &sig.Steps)
		flagFloat("hydration", &sig.HydrationGlasses)
		flagFloat("hrv", &sig.HRVMs)
		flagFloat("calories", &sig.Calories)
		flagFloat("meditation", &sig.MeditationMinutes)

		result := score.Compute(sig, scoreConfigFromSettings())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().Float64("mood", 0, "Self-reported mood (1-5)")
	scoreCmd.Flags().Float64("sleep-hours", 0, "Hours slept")
	scoreCmd.Flags().Float64("sleep-quality", 0, "Sleep quality (0-100)")
	scoreCmd.Flags().Float64("auto-sleep-hours", 0, "Wearable-tracked hours slept")
	scoreCmd.Flags().Float64("auto-sleep-quality", 0, "Wearable-tracked sleep quality (0-100)")
	scoreCmd.Flags().Float64("steps", 0, "Step count")
	scoreCmd.Flags().Float64("hydration", 0, "Glasses of water")
	scoreCmd.Flags().Float64("hrv", 0, "Heart rate variability in ms")
	scoreCmd.Flags().Float64("calories", 0, "Calories consumed")
	scoreCmd.Flags().Float64("meditation", 0, "Minutes meditated")
}
