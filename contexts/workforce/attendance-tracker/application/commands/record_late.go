package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "peervote/contexts/workforce/attendance-tracker/application"
	"peervote/contexts/workforce/attendance-tracker/domain/entities"
	domainerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
	"peervote/contexts/workforce/attendance-tracker/ports"
)

type RecordLateEventCommand struct {
	EmployeeID string
	Year       int
	Month      int
	Date       time.Time
	Minutes    int
	Reason     string
}

type RecordLateEventResult struct {
	Statistics entities.AttendanceStatistics
	Triggered  bool
	CampaignID string
}

// RecordLateEventUseCase appends a late event and, when the period first
// crosses the punishment threshold, hands the employee over to the campaign
// trigger. The predicate check and the phase advance form one logical unit:
// MarkTriggered is a compare-and-set, and the campaign side is create-or-fetch,
// so concurrent late events cannot spawn duplicate campaigns.
type RecordLateEventUseCase struct {
	Statistics ports.StatisticsRepository
	Trigger    ports.CampaignTrigger
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc RecordLateEventUseCase) Execute(ctx context.Context, cmd RecordLateEventCommand) (RecordLateEventResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	employeeID := strings.TrimSpace(cmd.EmployeeID)
	if employeeID == "" || cmd.Minutes <= 0 {
		return RecordLateEventResult{}, domainerrors.ErrInvalidLateEvent
	}
	if !entities.ValidPeriod(cmd.Year, cmd.Month) {
		return RecordLateEventResult{}, domainerrors.ErrInvalidPeriod
	}

	now := uc.now()
	date := cmd.Date
	if date.IsZero() {
		date = now
	}

	stats, err := uc.Statistics.AppendLateRecord(ctx, employeeID, cmd.Year, cmd.Month, entities.LateRecord{
		Date:    date.UTC(),
		Minutes: cmd.Minutes,
		Reason:  strings.TrimSpace(cmd.Reason),
	})
	if err != nil {
		logger.Error("late event append failed",
			"event", "attendance_late_event_append_failed",
			"module", "workforce/attendance-tracker",
			"layer", "application",
			"employee_id", employeeID,
			"error", err.Error(),
		)
		return RecordLateEventResult{}, err
	}

	result := RecordLateEventResult{Statistics: stats}
	if !stats.TriggerEligible() {
		return result, nil
	}

	fired, err := uc.Statistics.MarkTriggered(ctx, employeeID, cmd.Year, cmd.Month)
	if err != nil {
		return RecordLateEventResult{}, err
	}
	if !fired {
		// Another event already armed this period; its caller owns the hand-off.
		return result, nil
	}
	stats.Phase = entities.PhaseTriggered
	result.Statistics = stats
	result.Triggered = true

	campaignID, err := uc.Trigger.OpenDemotionCampaign(ctx, employeeID, cmd.Year, cmd.Month, now)
	if err != nil {
		logger.Error("punishment campaign hand-off failed",
			"event", "attendance_trigger_handoff_failed",
			"module", "workforce/attendance-tracker",
			"layer", "application",
			"employee_id", employeeID,
			"error", err.Error(),
		)
		return RecordLateEventResult{}, err
	}
	result.CampaignID = campaignID

	logger.Info("punishment trigger fired",
		"event", "attendance_punishment_triggered",
		"module", "workforce/attendance-tracker",
		"layer", "application",
		"employee_id", employeeID,
		"year", cmd.Year,
		"month", cmd.Month,
		"late_count", stats.LateCount,
		"late_minutes_total", stats.LateMinutesTotal,
		"campaign_id", campaignID,
	)
	return result, nil
}

func (uc RecordLateEventUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
