package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/vitalia-app/vitalia/pkg/aiclient"
	"github.com/vitalia-app/vitalia/pkg/daily"
	"github.com/vitalia-app/vitalia/pkg/score"
	"github.com/vitalia-app/vitalia/pkg/signals"
	"github.com/vitalia-app/vitalia/pkg/storage"
)

type stubGenerator struct{ text string }

func (s stubGenerator) Generate(context.Context, aiclient.Request) (aiclient.Response, error) {
	return aiclient.Response{Text: s.text}, nil
}

func newTestServer(t *testing.T, sig score.Signals) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := daily.New(daily.Deps{
		Gateway:   db,
		Generator: stubGenerator{text: `{"recommendations":[{"title":"Walk","description":"Mood"}]}`},
		Signals:   signals.Static{Signals: sig},
	})
	return New(svc, db, "", "")
}

var fullSignals = score.Signals{
	Mood:       score.Float(4),
	SleepHours: score.Float(7),
	Steps:      score.Float(12000),
}

func TestHandleDaily(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, fullSignals).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/daily?user=u1&category=movement&date=2026-08-30")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var res daily.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != daily.StatusGenerated {
		t.Fatalf("result status = %s", res.Status)
	}
	if res.Entity == nil || res.Entity.Score.Score == nil {
		t.Fatal("expected a scored entity")
	}
}

func TestHandleDailyInsufficientData(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, score.Signals{Mood: score.Float(3)}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/daily?user=u1&date=2026-08-30")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestHandleDailyValidation(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, fullSignals).Handler())
	defer srv.Close()

	for _, path := range []string{"/api/daily", "/api/daily?user=u1&date=30-08-2026"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestHandleEntries(t *testing.T) {
	ts := newTestServer(t, fullSignals)
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	// Generate one entity first.
	resp, err := http.Get(srv.URL + "/api/daily?user=u1&category=movement&date=2026-08-30")
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/entries?user=u1")
	if err != nil {
		t.Fatalf("entries request: %v", err)
	}
	defer resp.Body.Close()

	var entries []storage.DailyEntity
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Day != "2026-08-30" {
		t.Fatalf("entries = %#v", entries)
	}
}

func TestBasicAuth(t *testing.T) {
	ts := newTestServer(t, fullSignals)
	ts.Username = "admin"
	ts.Password = "s3cret"
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/daily?user=u1")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/daily?user=u1&date=2026-08-30", nil)
	req.SetBasicAuth("admin", "s3cret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authed request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authed status = %d", resp.StatusCode)
	}
}
