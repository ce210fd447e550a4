package workers

import (
	"context"
	"log/slog"
	"time"

	application "peervote/contexts/workforce/attendance-tracker/application"
	"peervote/contexts/workforce/attendance-tracker/ports"
)

// MonthlyRollover re-arms triggered statistics rows once their period has
// rolled over. Current-period rows are left untouched.
type MonthlyRollover struct {
	Statistics ports.StatisticsRepository
	Clock      ports.Clock
	BatchSize  int
	Logger     *slog.Logger
}

func (j MonthlyRollover) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	reset, err := j.Statistics.ResetTriggeredBefore(ctx, now.Year(), int(now.Month()), limit)
	if err != nil {
		logger.Error("monthly rollover sweep failed",
			"event", "attendance_rollover_failed",
			"module", "workforce/attendance-tracker",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if reset > 0 {
		logger.Info("monthly rollover sweep completed",
			"event", "attendance_rollover_completed",
			"module", "workforce/attendance-tracker",
			"layer", "worker",
			"reset_count", reset,
		)
	}
	return nil
}
