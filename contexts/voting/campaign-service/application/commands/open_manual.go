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

type OpenManualCampaignCommand struct {
	TargetRole           string
	StartTime            time.Time
	EndTime              time.Time
	PassThresholdPercent float64
	EligibleVoters       int
	MaxModifications     int
	CanModifyVotes       bool
	BufferPeriodDays     int
}

// OpenManualCampaignUseCase creates a nominated campaign. The campaign is
// born draft and becomes active immediately when the window already covers
// now; otherwise the activation sweeper picks it up later.
type OpenManualCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc OpenManualCampaignUseCase) Execute(ctx context.Context, cmd OpenManualCampaignCommand) (entities.PromotionCampaign, error) {
	logger := application.ResolveLogger(uc.Logger)

	if !entities.ValidTargetRole(cmd.TargetRole) {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidCampaignInput
	}
	if !entities.ValidWindow(cmd.StartTime, cmd.EndTime) {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidWindow
	}
	if !entities.ValidThreshold(cmd.PassThresholdPercent) {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidThreshold
	}
	if !entities.ValidElectorate(cmd.EligibleVoters) {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidCampaignInput
	}
	if cmd.MaxModifications < 0 || cmd.BufferPeriodDays < 0 {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidCampaignInput
	}

	now := resolveNow(uc.Clock)
	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.PromotionCampaign{}, err
	}

	campaign := entities.PromotionCampaign{
		CampaignID:           campaignID,
		TargetRole:           strings.TrimSpace(cmd.TargetRole),
		SubType:              entities.SubTypeManual,
		Status:               entities.StatusDraft,
		StartTime:            cmd.StartTime.UTC(),
		EndTime:              cmd.EndTime.UTC(),
		IsAnonymous:          true,
		CanModifyVotes:       cmd.CanModifyVotes,
		MaxModifications:     cmd.MaxModifications,
		BufferPeriodDays:     cmd.BufferPeriodDays,
		PassThresholdPercent: cmd.PassThresholdPercent,
		EligibleVoters:       cmd.EligibleVoters,
		Attempt:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return entities.PromotionCampaign{}, err
	}

	if campaign.WindowContains(now) {
		activated, err := uc.Campaigns.TransitionStatus(ctx, campaignID, entities.StatusDraft, entities.StatusActive, now)
		if err != nil {
			return entities.PromotionCampaign{}, err
		}
		campaign = activated
		if err := appendCampaignOpened(ctx, uc.Outbox, uc.IDGen, campaign, now); err != nil {
			return entities.PromotionCampaign{}, err
		}
	}

	logger.Info("manual campaign opened",
		"event", "campaign_manual_opened",
		"module", "voting/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"target_role", campaign.TargetRole,
		"status", string(campaign.Status),
	)
	return campaign, nil
}

func appendCampaignOpened(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	campaign entities.PromotionCampaign,
	occurredAt time.Time,
) error {
	if outbox == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, newCampaignEnvelope(eventID, "campaign.opened", campaign.CampaignID, occurredAt, map[string]any{
		"campaign_id": campaign.CampaignID,
		"target_role": campaign.TargetRole,
		"sub_type":    string(campaign.SubType),
		"start_time":  campaign.StartTime.UTC().Format(time.RFC3339),
		"end_time":    campaign.EndTime.UTC().Format(time.RFC3339),
	}))
}

func resolveNow(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
