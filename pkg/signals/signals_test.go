package signals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteCollect(t *testing.T) {
	var gotPath, gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("date")
		w.Write([]byte(`{"mood":4,"sleep_hours":7.5,"steps":12000,"hrv_ms":null}`))
	}))
	defer srv.Close()

	p := NewRemote(srv.URL, 5*time.Second)
	day := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	sig, err := p.Collect(context.Background(), "u1", day)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if gotPath != "/api/users/u1/signals" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotDate != "2026-08-30" {
		t.Fatalf("date = %q", gotDate)
	}
	if sig.Mood == nil || *sig.Mood != 4 {
		t.Fatalf("mood = %v", sig.Mood)
	}
	if sig.SleepHours == nil || *sig.SleepHours != 7.5 {
		t.Fatalf("sleep = %v", sig.SleepHours)
	}
	if sig.HRVMs != nil {
		t.Fatal("null field should remain absent")
	}
	if sig.Calories != nil {
		t.Fatal("omitted field should remain absent")
	}
}

func TestRemoteCollectNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewRemote(srv.URL, 5*time.Second)
	sig, err := p.Collect(context.Background(), "u1", time.Now())
	if err != nil {
		t.Fatalf("404 should mean an empty day, got error: %v", err)
	}
	if sig.Mood != nil || sig.Steps != nil {
		t.Fatalf("expected fully-missing signals, got %#v", sig)
	}
}

func TestRemoteCollectRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"steps":5000}`))
	}))
	defer srv.Close()

	p := NewRemote(srv.URL, 5*time.Second)
	p.client.RetryWaitMin = time.Millisecond
	p.client.RetryWaitMax = 2 * time.Millisecond

	sig, err := p.Collect(context.Background(), "u1", time.Now())
	if err != nil {
		t.Fatalf("collect should survive transient 502s: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if sig.Steps == nil || *sig.Steps != 5000 {
		t.Fatalf("steps = %v", sig.Steps)
	}
}
