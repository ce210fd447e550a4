package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"peervote/contexts/workforce/attendance-tracker/application/commands"
	"peervote/contexts/workforce/attendance-tracker/application/queries"
	"peervote/contexts/workforce/attendance-tracker/domain/entities"
	domainerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
	httptransport "peervote/contexts/workforce/attendance-tracker/transport/http"
)

type Handler struct {
	RecordLate commands.RecordLateEventUseCase
	Reset      commands.ResetPeriodUseCase
	Statistics queries.StatisticsUseCase
	Logger     *slog.Logger
}

func (h Handler) RecordLateEventHandler(
	ctx context.Context,
	req httptransport.RecordLateEventRequest,
) (httptransport.RecordLateEventResponse, error) {
	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return httptransport.RecordLateEventResponse{}, domainerrors.ErrInvalidLateEvent
		}
		date = parsed
	}
	result, err := h.RecordLate.Execute(ctx, commands.RecordLateEventCommand{
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		Month:      req.Month,
		Date:       date,
		Minutes:    req.Minutes,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.RecordLateEventResponse{}, err
	}
	return httptransport.RecordLateEventResponse{
		Statistics: toStatisticsResponse(result.Statistics),
		Triggered:  result.Triggered,
		CampaignID: result.CampaignID,
	}, nil
}

func (h Handler) ResetPeriodHandler(ctx context.Context, employeeID string, year int, month int) error {
	return h.Reset.Execute(ctx, commands.ResetPeriodCommand{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
	})
}

func (h Handler) StatisticsHandler(ctx context.Context, employeeID string, year int, month int) (httptransport.StatisticsResponse, error) {
	stats, err := h.Statistics.GetPeriod(ctx, employeeID, year, month)
	if err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	return toStatisticsResponse(stats), nil
}

func toStatisticsResponse(stats entities.AttendanceStatistics) httptransport.StatisticsResponse {
	records := make([]httptransport.LateRecordDTO, 0, len(stats.LateRecords))
	for _, record := range stats.LateRecords {
		records = append(records, httptransport.LateRecordDTO{
			Date:    record.Date.UTC().Format("2006-01-02"),
			Minutes: record.Minutes,
			Reason:  record.Reason,
		})
	}
	return httptransport.StatisticsResponse{
		EmployeeID:       stats.EmployeeID,
		Year:             stats.Year,
		Month:            stats.Month,
		LateCount:        stats.LateCount,
		LateMinutesTotal: stats.LateMinutesTotal,
		LateRecords:      records,
		Phase:            string(stats.Phase),
		PunishmentCount:  stats.PunishmentCount,
	}
}
