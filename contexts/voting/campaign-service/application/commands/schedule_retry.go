package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "peervote/contexts/voting/campaign-service/application"
	"peervote/contexts/voting/campaign-service/domain/entities"
	domainerrors "peervote/contexts/voting/campaign-service/domain/errors"
	"peervote/contexts/voting/campaign-service/ports"
)

// ScheduleRetryUseCase creates the successor of a failed automatic campaign.
// The successor starts after the buffer period, keeps the original window
// duration, and is linked to the failed campaign through PredecessorID and
// an incremented attempt counter. The original row is never mutated. The
// punishment count on the triggering statistics row is bumped through the
// attendance tracker.
type ScheduleRetryUseCase struct {
	Campaigns  ports.CampaignRepository
	Punishment ports.PunishmentCounter
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	RetryLimit int
	Logger     *slog.Logger
}

func (uc ScheduleRetryUseCase) Execute(ctx context.Context, failedCampaignID string) (string, error) {
	logger := application.ResolveLogger(uc.Logger)

	failedCampaignID = strings.TrimSpace(failedCampaignID)
	if failedCampaignID == "" {
		return "", domainerrors.ErrInvalidCampaignInput
	}

	failed, err := uc.Campaigns.GetCampaign(ctx, failedCampaignID)
	if err != nil {
		return "", err
	}
	if !failed.SystemGenerated || !failed.Automatic() {
		return "", domainerrors.ErrRetryNotAllowed
	}
	if failed.Status != entities.StatusClosed || failed.Outcome != entities.OutcomeFailed {
		return "", domainerrors.ErrRetryNotAllowed
	}

	limit := uc.RetryLimit
	if limit <= 0 {
		limit = 3
	}
	if failed.Attempt >= limit {
		logger.Warn("retry limit reached, escalation required",
			"event", "campaign_retry_limit_exceeded",
			"module", "voting/campaign-service",
			"layer", "application",
			"campaign_id", failedCampaignID,
			"attempt", failed.Attempt,
			"retry_limit", limit,
		)
		return "", domainerrors.ErrRetryLimitExceeded
	}

	if _, err := uc.Punishment.Increment(ctx, failed.TriggerEmployeeID, failed.TriggerYear, failed.TriggerMonth); err != nil {
		return "", err
	}

	now := resolveNow(uc.Clock)
	buffer := time.Duration(failed.BufferPeriodDays) * 24 * time.Hour
	nextStart := failed.EndTime.UTC().Add(buffer)
	if nextStart.Before(now) {
		nextStart = now.Add(buffer)
	}
	duration := failed.EndTime.Sub(failed.StartTime)

	successorID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return "", err
	}
	successor := entities.PromotionCampaign{
		CampaignID:           successorID,
		TargetRole:           failed.TargetRole,
		SubType:              failed.SubType,
		Status:               entities.StatusDraft,
		StartTime:            nextStart,
		EndTime:              nextStart.Add(duration),
		IsAnonymous:          true,
		CanModifyVotes:       failed.CanModifyVotes,
		MaxModifications:     failed.MaxModifications,
		BufferPeriodDays:     failed.BufferPeriodDays,
		PassThresholdPercent: failed.PassThresholdPercent,
		EligibleVoters:       failed.EligibleVoters,
		TriggerEmployeeID:    failed.TriggerEmployeeID,
		TriggerYear:          failed.TriggerYear,
		TriggerMonth:         failed.TriggerMonth,
		SystemGenerated:      true,
		Attempt:              failed.Attempt + 1,
		PredecessorID:        failed.CampaignID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.Campaigns.CreateCampaign(ctx, successor); err != nil {
		return "", err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return "", err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newCampaignEnvelope(eventID, "campaign.retry_scheduled", successorID, now, map[string]any{
			"campaign_id":    successorID,
			"predecessor_id": failed.CampaignID,
			"attempt":        successor.Attempt,
			"start_time":     successor.StartTime.Format(time.RFC3339),
		})); err != nil {
			return "", err
		}
	}

	logger.Info("retry campaign scheduled",
		"event", "campaign_retry_scheduled",
		"module", "voting/campaign-service",
		"layer", "application",
		"campaign_id", successorID,
		"predecessor_id", failed.CampaignID,
		"attempt", successor.Attempt,
		"start_time", successor.StartTime.Format(time.RFC3339),
	)
	return successorID, nil
}
