package commands

import (
	"context"
	"log/slog"
	"strings"

	application "peervote/contexts/workforce/attendance-tracker/application"
	"peervote/contexts/workforce/attendance-tracker/domain/entities"
	domainerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
	"peervote/contexts/workforce/attendance-tracker/ports"
)

type ResetPeriodCommand struct {
	EmployeeID string
	Year       int
	Month      int
}

// ResetPeriodUseCase is the administrative reset. It clears aggregates and
// re-arms the punishment trigger for the period.
type ResetPeriodUseCase struct {
	Statistics ports.StatisticsRepository
	Logger     *slog.Logger
}

func (uc ResetPeriodUseCase) Execute(ctx context.Context, cmd ResetPeriodCommand) error {
	logger := application.ResolveLogger(uc.Logger)

	employeeID := strings.TrimSpace(cmd.EmployeeID)
	if employeeID == "" {
		return domainerrors.ErrInvalidLateEvent
	}
	if !entities.ValidPeriod(cmd.Year, cmd.Month) {
		return domainerrors.ErrInvalidPeriod
	}

	if err := uc.Statistics.ResetPeriod(ctx, employeeID, cmd.Year, cmd.Month); err != nil {
		return err
	}
	logger.Info("statistics period reset",
		"event", "attendance_period_reset",
		"module", "workforce/attendance-tracker",
		"layer", "application",
		"employee_id", employeeID,
		"year", cmd.Year,
		"month", cmd.Month,
	)
	return nil
}

// IncrementPunishmentUseCase bumps the punishment counter on the statistics
// row that fired a campaign. Only this module writes statistics rows; retry
// scheduling reaches it through this use case.
type IncrementPunishmentUseCase struct {
	Statistics ports.StatisticsRepository
	Logger     *slog.Logger
}

func (uc IncrementPunishmentUseCase) Execute(ctx context.Context, employeeID string, year int, month int) (int, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" || !entities.ValidPeriod(year, month) {
		return 0, domainerrors.ErrInvalidPeriod
	}
	count, err := uc.Statistics.IncrementPunishment(ctx, employeeID, year, month)
	if err != nil {
		return 0, err
	}
	application.ResolveLogger(uc.Logger).Info("punishment count incremented",
		"event", "attendance_punishment_incremented",
		"module", "workforce/attendance-tracker",
		"layer", "application",
		"employee_id", employeeID,
		"year", year,
		"month", month,
		"punishment_count", count,
	)
	return count, nil
}
