// Package signals gathers the day's raw health inputs for a user. Signals
// are ephemeral: collected per computation, never persisted here.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/vitalia-app/vitalia/pkg/score"
	"github.com/vitalia-app/vitalia/pkg/storage"
)

// Provider collects one day of signals for a user.
type Provider interface {
	Collect(ctx context.Context, userID string, day time.Time) (score.Signals, error)
}

// Static serves fixed signals. Used by the score command and by tests.
type Static struct {
	Signals score.Signals
}

func (s Static) Collect(context.Context, string, time.Time) (score.Signals, error) {
	return s.Signals, nil
}

// Remote fetches signals from the health-data backend. The endpoint is
// flaky under load, so requests ride a retrying client.
type Remote struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewRemote builds a Remote provider against baseURL.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 3
	if timeout > 0 {
		retryClient.HTTPClient.Timeout = timeout
	}
	return &Remote{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  retryClient,
	}
}

// signalsDoc mirrors the backend payload. Pointer fields keep "absent"
// distinct from zero, which the score engine depends on.
type signalsDoc struct {
	Mood              *float64 `json:"mood"`
	SleepHours        *float64 `json:"sleep_hours"`
	SleepQuality      *float64 `json:"sleep_quality"`
	AutoSleepHours    *float64 `json:"auto_sleep_hours"`
	AutoSleepQuality  *float64 `json:"auto_sleep_quality"`
	Steps             *float64 `json:"steps"`
	HydrationGlasses  *float64 `json:"hydration_glasses"`
	HRVMs             *float64 `json:"hrv_ms"`
	Calories          *float64 `json:"calories"`
	MeditationMinutes *float64 `json:"meditation_minutes"`
}

func (r *Remote) Collect(ctx context.Context, userID string, day time.Time) (score.Signals, error) {
	endpoint := fmt.Sprintf("%s/api/users/%s/signals?date=%s",
		r.baseURL, url.PathEscape(userID), storage.Day(day))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return score.Signals{}, fmt.Errorf("build signals request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return score.Signals{}, fmt.Errorf("fetch signals for %s: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No data recorded yet today; that is a valid, fully-missing day.
		return score.Signals{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return score.Signals{}, fmt.Errorf("signals backend returned HTTP %d", resp.StatusCode)
	}

	var doc signalsDoc
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return score.Signals{}, fmt.Errorf("decode signals: %w", err)
	}

	return score.Signals{
		Mood:              doc.Mood,
		SleepHours:        doc.SleepHours,
		SleepQuality:      doc.SleepQuality,
		AutoSleepHours:    doc.AutoSleepHours,
		AutoSleepQuality:  doc.AutoSleepQuality,
		Steps:             doc.Steps,
		HydrationGlasses:  doc.HydrationGlasses,
		HRVMs:             doc.HRVMs,
		Calories:          doc.Calories,
		MeditationMinutes: doc.MeditationMinutes,
	}, nil
}
