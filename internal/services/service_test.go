package services

import (
	"testing"
	"time"

	"github.com/hostgate/hostgate/internal/clock"
	"github.com/hostgate/hostgate/internal/database"
)

func setupServiceDB(t *testing.T) *database.Context {
	t.Helper()
	t.Setenv("HOSTGATE_DIR", t.TempDir())

	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := database.CloseDatabase(dbCtx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return dbCtx
}

func testClock() *clock.Fixed {
	return clock.NewFixed(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.Second)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }
