package cmd

import (
	"time"

	"github.com/spf13/viper"

	"github.com/vitalia-app/vitalia/internal/utils"
	"github.com/vitalia-app/vitalia/pkg/aiclient"
	"github.com/vitalia-app/vitalia/pkg/daily"
	"github.com/vitalia-app/vitalia/pkg/retry"
	"github.com/vitalia-app/vitalia/pkg/score"
	"github.com/vitalia-app/vitalia/pkg/signals"
	"github.com/vitalia-app/vitalia/pkg/storage"
)

// scoreConfigFromSettings builds the goal and weight tables from viper.
func scoreConfigFromSettings() score.Config {
	return score.Config{
		Goals: map[score.Category]float64{
			score.CategorySleep:      viper.GetFloat64("goals.sleep_hours"),
			score.CategorySleepAuto:  viper.GetFloat64("goals.sleep_hours"),
			score.CategorySteps:      viper.GetFloat64("goals.steps"),
			score.CategoryHydration:  viper.GetFloat64("goals.hydration_glasses"),
			score.CategoryHRV:        viper.GetFloat64("goals.hrv_ms"),
			score.CategoryCalories:   viper.GetFloat64("goals.calories"),
			score.CategoryMeditation: viper.GetFloat64("goals.meditation_minutes"),
		},
		Weights: map[score.Category]int{
			score.CategoryMood:       viper.GetInt("weights.mood"),
			score.CategorySleep:      viper.GetInt("weights.sleep"),
			score.CategorySleepAuto:  viper.GetInt("weights.sleep_auto"),
			score.CategorySteps:      viper.GetInt("weights.steps"),
			score.CategoryHydration:  viper.GetInt("weights.hydration"),
			score.CategoryHRV:        viper.GetInt("weights.hrv"),
			score.CategoryCalories:   viper.GetInt("weights.calories"),
			score.CategoryMeditation: viper.GetInt("weights.meditation"),
		},
		MinCoverage: viper.GetInt("score.min_coverage"),
	}
}

// newDailyService wires the full stack from settings. The caller owns the DB
// handle and must close it.
func newDailyService(provider signals.Provider) (*daily.Service, *storage.DB, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}

	generator := aiclient.New(aiclient.Config{
		Endpoint: viper.GetString("ai.endpoint"),
		APIKey:   viper.GetString("ai.api_key"),
		Model:    viper.GetString("ai.model"),
		Timeout:  time.Duration(viper.GetInt("ai.timeout_seconds")) * time.Second,
	})

	if provider == nil {
		provider = signals.NewRemote(
			viper.GetString("signals.base_url"),
			time.Duration(viper.GetInt("signals.timeout_seconds"))*time.Second,
		)
	}

	retryPolicy := retry.DefaultPolicy()
	if n := viper.GetInt("retry.max_attempts"); n > 0 {
		retryPolicy.MaxAttempts = n
	}

	svc := daily.New(daily.Deps{
		Gateway:   db,
		Generator: generator,
		Signals:   provider,
		Config: daily.Config{
			Score:       scoreConfigFromSettings(),
			Retry:       retryPolicy,
			CacheTTL:    time.Duration(viper.GetInt("cache.ttl_minutes")) * time.Minute,
			LockTimeout: time.Duration(viper.GetInt("lock.timeout_seconds")) * time.Second,
		},
		Log: utils.Log,
	})
	return svc, db, nil
}
