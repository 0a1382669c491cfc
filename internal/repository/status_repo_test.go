package repository

import (
	"context"
	"testing"

	"github.com/liuynx/Tandem/internal/schema"
	"github.com/liuynx/Tandem/internal/testutil"
)

func TestStatusRepository_UpsertAndGet(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewStatusRepository(db)
	ctx := context.Background()

	status := &schema.WeeklyStatus{
		UserID:            "alice",
		WeekStart:         "2026-08-31",
		AvailableTime:     schema.TimeLimited,
		EmotionalCapacity: schema.LevelModerate,
		StressLevel:       schema.LevelHigh,
		EnergyLevel:       schema.LevelLow,
		WorkSchedule:      schema.ScheduleFullTime,
		Challenges:        schema.JSONArray{"work_deadline"},
	}
	if err := repo.Upsert(ctx, status); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetByUserWeek(ctx, "alice", "2026-08-31")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.AvailableTime != schema.TimeLimited {
		t.Fatalf("stored status = %+v", got)
	}
	if !got.Challenges.Contains("work_deadline") {
		t.Error("challenges did not round-trip")
	}

	// second submit for the same week replaces the row instead of adding one
	update := &schema.WeeklyStatus{
		UserID:            "alice",
		WeekStart:         "2026-08-31",
		AvailableTime:     schema.TimePlenty,
		EmotionalCapacity: schema.LevelHigh,
	}
	if err := repo.Upsert(ctx, update); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err = repo.GetByUserWeek(ctx, "alice", "2026-08-31")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.AvailableTime != schema.TimePlenty {
		t.Errorf("upsert should overwrite, got %q", got.AvailableTime)
	}

	var count int64
	db.Model(&schema.WeeklyStatus{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 row after upsert, got %d", count)
	}
}

func TestStatusRepository_MissingReturnsNil(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewStatusRepository(db)

	got, err := repo.GetByUserWeek(context.Background(), "nobody", "2026-08-31")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("missing status should be nil, got %+v", got)
	}
}

func TestStatusRepository_GetRecentByUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewStatusRepository(db)
	ctx := context.Background()

	for _, week := range []string{"2026-08-17", "2026-08-24", "2026-08-31"} {
		if err := repo.Upsert(ctx, &schema.WeeklyStatus{UserID: "alice", WeekStart: week}); err != nil {
			t.Fatalf("upsert %s: %v", week, err)
		}
	}

	got, err := repo.GetRecentByUser(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("get recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit should cap results, got %d", len(got))
	}
	if got[0].WeekStart != "2026-08-31" || got[1].WeekStart != "2026-08-24" {
		t.Errorf("order should be newest first: %s, %s", got[0].WeekStart, got[1].WeekStart)
	}
}
