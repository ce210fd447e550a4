package postgresadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"peervote/contexts/workforce/attendance-tracker/domain/entities"
	domainerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return NewRepository(gdb, nil), mock
}

func TestMarkTriggeredAdvancesAccumulatingRow(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "attendance_statistics" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fired, err := repo.MarkTriggered(context.Background(), "emp-1", 2026, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected the guarded update to report one affected row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkTriggeredIsNoOpWhenAlreadyTriggered(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "attendance_statistics" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	fired, err := repo.MarkTriggered(context.Background(), "emp-1", 2026, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired {
		t.Fatal("a row outside the accumulating phase must not fire again")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetStatisticsDecodesLateRecords(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"employee_id", "year", "month", "late_count", "late_minutes_total",
		"late_records", "phase", "punishment_count", "created_at", "updated_at",
	}).AddRow(
		"emp-1", 2026, 3, 2, 9,
		[]byte(`[{"date":"2026-03-02T09:00:00Z","minutes":5,"reason":""},{"date":"2026-03-05T09:00:00Z","minutes":4,"reason":"traffic"}]`),
		"accumulating", 0, now, now,
	)
	mock.ExpectQuery(`SELECT \* FROM "attendance_statistics"`).WillReturnRows(rows)

	stats, err := repo.GetStatistics(context.Background(), "emp-1", 2026, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.LateCount != 2 || stats.LateMinutesTotal != 9 {
		t.Fatalf("unexpected totals: count=%d minutes=%d", stats.LateCount, stats.LateMinutesTotal)
	}
	if len(stats.LateRecords) != 2 || stats.LateRecords[1].Reason != "traffic" {
		t.Fatalf("late records not decoded: %+v", stats.LateRecords)
	}
	if stats.Phase != entities.PhaseAccumulating {
		t.Fatalf("unexpected phase: %s", stats.Phase)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetStatisticsNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "attendance_statistics"`).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id"}))

	_, err := repo.GetStatistics(context.Background(), "emp-missing", 2026, 3)
	if !errors.Is(err, domainerrors.ErrStatisticsNotFound) {
		t.Fatalf("expected ErrStatisticsNotFound, got %v", err)
	}
}
