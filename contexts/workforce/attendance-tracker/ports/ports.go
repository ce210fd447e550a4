package ports

import (
	"context"
	"time"

	"peervote/contexts/workforce/attendance-tracker/domain/entities"
)

type StatisticsRepository interface {
	// AppendLateRecord creates the period row if missing, appends the record
	// and bumps both aggregates in one storage operation. A failed append
	// leaves no partial increment behind.
	AppendLateRecord(ctx context.Context, employeeID string, year int, month int, record entities.LateRecord) (entities.AttendanceStatistics, error)
	// MarkTriggered advances accumulating -> triggered. It returns false when
	// another caller already advanced the row, so the campaign hand-off runs
	// at most once per period.
	MarkTriggered(ctx context.Context, employeeID string, year int, month int) (bool, error)
	GetStatistics(ctx context.Context, employeeID string, year int, month int) (entities.AttendanceStatistics, error)
	// ResetPeriod clears aggregates and re-arms the trigger for the period.
	ResetPeriod(ctx context.Context, employeeID string, year int, month int) error
	IncrementPunishment(ctx context.Context, employeeID string, year int, month int) (int, error)
	// ResetTriggeredBefore re-arms triggered rows belonging to periods older
	// than (year, month). Used by the monthly rollover sweep.
	ResetTriggeredBefore(ctx context.Context, year int, month int, limit int) (int, error)
}

// CampaignTrigger opens (or fetches) the automatic demotion campaign for an
// employee whose statistics crossed the threshold. Implementations must be
// idempotent: repeated trigger events collapse into the existing campaign.
type CampaignTrigger interface {
	OpenDemotionCampaign(ctx context.Context, employeeID string, year int, month int, firedAt time.Time) (string, error)
}

type Clock interface {
	Now() time.Time
}
