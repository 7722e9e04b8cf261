package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vitalia-app/vitalia/pkg/insights"
	"github.com/vitalia-app/vitalia/pkg/score"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleEntity(day string) *DailyEntity {
	s := 88
	return &DailyEntity{
		UserID:   "u1",
		Category: "wellness",
		Day:      day,
		Score: score.Result{
			Score:     &s,
			Breakdown: map[score.Category]score.Item{score.CategoryMood: {Score: 80, Weight: 2, Value: 4}},
			Included:  []score.Category{score.CategoryMood},
			Missing:   []score.Category{score.CategorySteps},
		},
		Recommendations: []insights.Recommendation{{
			ID:               "r1",
			Priority:         insights.PriorityHigh,
			Category:         insights.CategoryMovement,
			Action:           "Take a walk",
			Reason:           "Boosts mood",
			Correlations:     []string{"mood"},
			ExpectedBenefits: []string{"better mood"},
		}},
		Summary: "A solid day",
	}
}

func TestGetByDateMissing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetByDate(context.Background(), "nobody", "wellness", "2026-08-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing row, got %#v", got)
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	e := sampleEntity("2026-08-30")
	if err := db.Upsert(ctx, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetByDate(ctx, "u1", "wellness", "2026-08-30")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected a row")
	}
	if got.Score.Score == nil || *got.Score.Score != 88 {
		t.Fatalf("score lost in round trip: %#v", got.Score)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0].Action != "Take a walk" {
		t.Fatalf("recommendations lost: %#v", got.Recommendations)
	}
	if got.Summary != "A solid day" {
		t.Fatalf("summary = %q", got.Summary)
	}
}

func TestUpsertConvergesToOneRow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	e := sampleEntity("2026-08-30")
	if err := db.Upsert(ctx, e); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	e.Summary = "revised"
	e.Fallback = true
	if err := db.Upsert(ctx, e); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	entries, err := db.ListByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single row after double upsert, got %d", len(entries))
	}
	if entries[0].Summary != "revised" || !entries[0].Fallback {
		t.Fatalf("second write did not win: %#v", entries[0])
	}
}

func TestListByUserOrdering(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, day := range []string{"2026-08-28", "2026-08-30", "2026-08-29"} {
		if err := db.Upsert(ctx, sampleEntity(day)); err != nil {
			t.Fatalf("upsert %s: %v", day, err)
		}
	}

	entries, err := db.ListByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(entries))
	}
	if entries[0].Day != "2026-08-30" || entries[2].Day != "2026-08-28" {
		t.Fatalf("wrong ordering: %s, %s, %s", entries[0].Day, entries[1].Day, entries[2].Day)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, day := range []string{"2026-07-01", "2026-08-30"} {
		if err := db.Upsert(ctx, sampleEntity(day)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	n, err := db.DeleteOlderThan(ctx, "2026-08-01")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deletion, got %d", n)
	}

	entries, _ := db.ListByUser(ctx, "u1", 10)
	if len(entries) != 1 || entries[0].Day != "2026-08-30" {
		t.Fatalf("wrong survivor: %#v", entries)
	}
}
