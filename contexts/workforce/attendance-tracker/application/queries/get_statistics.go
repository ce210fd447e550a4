package queries

import (
	"context"
	"strings"

	"peervote/contexts/workforce/attendance-tracker/domain/entities"
	domainerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
	"peervote/contexts/workforce/attendance-tracker/ports"
)

type StatisticsUseCase struct {
	Statistics ports.StatisticsRepository
}

func (uc StatisticsUseCase) GetPeriod(ctx context.Context, employeeID string, year int, month int) (entities.AttendanceStatistics, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" || !entities.ValidPeriod(year, month) {
		return entities.AttendanceStatistics{}, domainerrors.ErrInvalidPeriod
	}
	return uc.Statistics.GetStatistics(ctx, employeeID, year, month)
}
