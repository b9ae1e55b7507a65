package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"oddmap/internal/database/dbtest"
	"oddmap/internal/domain"
	"oddmap/internal/models"
)

func seedLocation(t *testing.T, repo *LocationRepository, id string, lat, lng float64, createdAt time.Time) {
	t.Helper()
	url := "https://cdn.example.com/" + id + ".png"
	loc := &models.Location{
		ID:          id,
		Name:        "pin " + id,
		Description: "desc",
		Latitude:    lat,
		Longitude:   lng,
		ImageURL:    &url,
		Handle:      "Anonymous#abc123",
		CreatedAt:   createdAt,
	}
	if err := repo.Create(context.Background(), loc); err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
}

func TestListVisibleNewestFirst(t *testing.T) {
	repo := NewLocationRepository(dbtest.Open(t))
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seedLocation(t, repo, "t1", 0, 0, base)
	seedLocation(t, repo, "t2", 0, 0, base.Add(time.Minute))
	seedLocation(t, repo, "t3", 0, 0, base.Add(2*time.Minute))

	list, err := repo.ListVisible(context.Background(), domain.LocationListLimit)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, len(list))
	for i, l := range list {
		got[i] = l.ID
	}
	if fmt.Sprint(got) != "[t3 t2 t1]" {
		t.Fatalf("unexpected order %v", got)
	}
	if list[0].ReportCount != 0 {
		t.Fatalf("new location should start at zero reports, got %d", list[0].ReportCount)
	}
}

func TestListVisibleRespectsLimit(t *testing.T) {
	repo := NewLocationRepository(dbtest.Open(t))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedLocation(t, repo, fmt.Sprintf("l%d", i), 0, 0, base.Add(time.Duration(i)*time.Second))
	}
	list, err := repo.ListVisible(context.Background(), 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "l4" {
		t.Fatalf("expected 3 newest, got %+v", list)
	}
}

func TestReportThresholdHidesLocation(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository(dbtest.Open(t))
	seedLocation(t, repo, "flagged", 1, 1, time.Now().UTC())

	for i := 0; i < domain.ReportThreshold-1; i++ {
		if _, err := repo.IncrementReportCount(ctx, "flagged"); err != nil {
			t.Fatalf("report: %v", err)
		}
	}
	list, _ := repo.ListVisible(ctx, domain.LocationListLimit)
	if len(list) != 1 {
		t.Fatalf("location should still be visible below threshold")
	}

	if _, err := repo.IncrementReportCount(ctx, "flagged"); err != nil {
		t.Fatalf("report: %v", err)
	}
	list, _ = repo.ListVisible(ctx, domain.LocationListLimit)
	if len(list) != 0 {
		t.Fatalf("location should be hidden at threshold, got %+v", list)
	}
	loc, err := repo.GetByID(ctx, "flagged")
	if err != nil {
		t.Fatalf("hidden row should persist: %v", err)
	}
	if loc.ReportCount != domain.ReportThreshold {
		t.Fatalf("report count = %d", loc.ReportCount)
	}
}

func TestIncrementReportCountNotCapped(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository(dbtest.Open(t))
	seedLocation(t, repo, "x", 0, 0, time.Now().UTC())
	const n = 12
	for i := 0; i < n; i++ {
		if _, err := repo.IncrementReportCount(ctx, "x"); err != nil {
			t.Fatalf("report: %v", err)
		}
	}
	loc, _ := repo.GetByID(ctx, "x")
	if loc.ReportCount != n {
		t.Fatalf("expected %d reports, got %d", n, loc.ReportCount)
	}
}

func TestIncrementReportCountUnknownID(t *testing.T) {
	repo := NewLocationRepository(dbtest.Open(t))
	n, err := repo.IncrementReportCount(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unknown id should not error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected zero rows affected, got %d", n)
	}
}

func TestIncrementReportCountConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository(dbtest.Open(t))
	seedLocation(t, repo, "race", 0, 0, time.Now().UTC())

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementReportCount(ctx, "race"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent report: %v", err)
	}
	loc, _ := repo.GetByID(ctx, "race")
	if loc.ReportCount != workers {
		t.Fatalf("lost update: got %d, want %d", loc.ReportCount, workers)
	}
}

func TestListVisibleNear(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository(dbtest.Open(t))
	now := time.Now().UTC()
	seedLocation(t, repo, "nairobi", -1.2921, 36.8219, now)
	seedLocation(t, repo, "thika", -1.0333, 37.0693, now.Add(time.Second))
	seedLocation(t, repo, "mombasa", -4.0435, 39.6682, now.Add(2*time.Second))

	list, err := repo.ListVisibleNear(ctx, -1.2921, 36.8219, 60, domain.LocationListLimit)
	if err != nil {
		t.Fatalf("near: %v", err)
	}
	if len(list) != 2 || list[0].ID != "thika" || list[1].ID != "nairobi" {
		t.Fatalf("unexpected near result %+v", list)
	}
}

func TestListVisibleNearAcrossAntimeridian(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository(dbtest.Open(t))
	now := time.Now().UTC()
	seedLocation(t, repo, "taveuni-east", -16.85, 179.95, now)
	seedLocation(t, repo, "taveuni-west", -16.85, -179.95, now.Add(time.Second))
	seedLocation(t, repo, "same-lat-far", -16.85, 120, now.Add(2*time.Second))

	for _, lng := range []float64{179.99, -179.99} {
		list, err := repo.ListVisibleNear(ctx, -16.85, lng, 50, domain.LocationListLimit)
		if err != nil {
			t.Fatalf("near %v: %v", lng, err)
		}
		if len(list) != 2 || list[0].ID != "taveuni-west" || list[1].ID != "taveuni-east" {
			t.Fatalf("near %v: unexpected result %+v", lng, list)
		}
	}
}

func TestListVisibleNearRespectsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository(dbtest.Open(t))
	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		seedLocation(t, repo, fmt.Sprintf("n%d", i), 10, 10, now.Add(time.Duration(i)*time.Second))
	}
	list, err := repo.ListVisibleNear(ctx, 10, 10, 5, 3)
	if err != nil {
		t.Fatalf("near: %v", err)
	}
	if len(list) != 3 || list[0].ID != "n9" {
		t.Fatalf("unexpected limited result %+v", list)
	}
}
