package workers

import (
	"context"
	"testing"
	"time"

	"peervote/contexts/workforce/attendance-tracker/adapters/memory"
	"peervote/contexts/workforce/attendance-tracker/domain/entities"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestMonthlyRolloverRearmsOnlyPastPeriods(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	appendAndTrigger := func(employeeID string, year int, month int) {
		if _, err := store.AppendLateRecord(ctx, employeeID, year, month, entities.LateRecord{Minutes: 15}); err != nil {
			t.Fatalf("seed append: %v", err)
		}
		fired, err := store.MarkTriggered(ctx, employeeID, year, month)
		if err != nil || !fired {
			t.Fatalf("seed trigger: fired=%v err=%v", fired, err)
		}
	}
	appendAndTrigger("emp-past", 2026, 2)
	appendAndTrigger("emp-current", 2026, 3)

	rollover := MonthlyRollover{
		Statistics: store,
		Clock:      fixedClock{now: time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)},
	}
	if err := rollover.RunOnce(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	past, err := store.GetStatistics(ctx, "emp-past", 2026, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if past.Phase != entities.PhaseAccumulating {
		t.Fatalf("expected past period re-armed, got %s", past.Phase)
	}

	current, err := store.GetStatistics(ctx, "emp-current", 2026, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Phase != entities.PhaseTriggered {
		t.Fatalf("current period must stay triggered, got %s", current.Phase)
	}
}
